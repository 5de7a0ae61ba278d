package cmd

import (
	"context"
	"strings"
	"testing"
)

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	// Execute with --version should not return an error (it prints and exits).
	err := Execute(context.Background(), []string{"--version"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_Help verifies --help (and no args) returns without error.
func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {}} {
		name := "no-args"
		if len(args) > 0 {
			name = args[0]
		}
		t.Run(name, func(t *testing.T) {
			err := Execute(context.Background(), args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	for _, args := range [][]string{
		{"-l", "-p", "8080", "--dry-run"},
		{"127.0.0.1", "8080", "--dry-run"},
		{"-i", "250ms", "-c", "5", "127.0.0.1", "8080", "--dry-run"},
	} {
		if err := Execute(context.Background(), args); err != nil {
			t.Fatalf("args %v: unexpected error: %v", args, err)
		}
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"listen without port", []string{"-l", "--dry-run"}},
		{"connect without port", []string{"127.0.0.1", "--dry-run"}},
		{"connect without host", []string{"--dry-run", "--", ""}},
		{"count in listen mode", []string{"-l", "-p", "8080", "-c", "3", "--dry-run"}},
		{"bad port", []string{"127.0.0.1", "123456", "--dry-run"}},
		{"extra args", []string{"127.0.0.1", "8080", "9090", "--dry-run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Execute(context.Background(), tt.args); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	err := Execute(context.Background(), []string{"--nonexistent-flag"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_EnvOverlay verifies environment variables configure the
// run and explicit flags still win over them.
func TestExecute_EnvOverlay(t *testing.T) {
	t.Setenv("GOPING_LISTEN", "1")
	t.Setenv("GOPING_PORT", "8080")

	if err := Execute(context.Background(), []string{"--dry-run", "-l"}); err != nil {
		t.Fatalf("env-configured listen mode rejected: %v", err)
	}

	// An env port must lose against an invalid explicit flag so the
	// precedence order stays flags > env.
	err := Execute(context.Background(), []string{"-l", "-p", "99999", "--dry-run"})
	if err == nil {
		t.Fatal("explicit bad port should override env and fail validation")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error should mention range: %v", err)
	}
}
