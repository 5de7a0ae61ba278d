package util

import (
	"net"
	"strconv"
	"testing"
)

func TestFormatAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 8080, "127.0.0.1:8080"},
		{"example.com", 443, "example.com:443"},
		{"::1", 9000, "[::1]:9000"},
	}
	for _, tt := range tests {
		if got := FormatAddr(tt.host, tt.port); got != tt.want {
			t.Errorf("FormatAddr(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestResolveAddr(t *testing.T) {
	// Numeric IP passes with DNS disabled.
	addr, err := ResolveAddr("192.0.2.1", 8080, true)
	if err != nil {
		t.Fatalf("ResolveAddr numeric: %v", err)
	}
	if addr != "192.0.2.1:8080" {
		t.Errorf("addr = %q", addr)
	}

	// Hostname rejected with DNS disabled.
	if _, err := ResolveAddr("example.com", 8080, true); err == nil {
		t.Error("expected error for hostname with noDNS=true")
	}

	// Hostname passes with DNS enabled (no lookup happens here).
	if _, err := ResolveAddr("example.com", 8080, false); err != nil {
		t.Errorf("ResolveAddr hostname: %v", err)
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if port < 1 || port > 65535 {
		t.Fatalf("port %d out of range", port)
	}

	// The port should actually be bindable.
	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("binding returned port %d: %v", port, err)
	}
	ln.Close()
}
