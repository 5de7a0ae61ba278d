// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"goping/config"
	"goping/internal/core"
	"goping/internal/metrics"
	"goping/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X goping/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the appropriate goping mode.
func Execute(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	fs := flag.NewFlagSet("goping", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	fs.BoolVarP(&cfg.Listen, "listen", "l", false, "Listen mode (pong server)")
	fs.IntVarP(&cfg.LocalPort, "port", "p", 0, "Local port number (with -l)")
	fs.BoolVarP(&cfg.NoDNS, "no-dns", "n", false, "Numeric-only, no DNS resolution")

	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Connect timeout in seconds")

	// ── cadence ──────────────────────────────────────────────────
	fs.DurationVarP(&cfg.Interval, "interval", "i", config.DefaultInterval,
		"Delay between pings (sent regardless of responses)")
	fs.IntVarP(&cfg.Count, "count", "c", 0, "Stop after sending N pings (0 = forever)")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate configuration and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// Environment overlays sit between flag defaults and explicit
	// flags: registration above has already written the defaults, and
	// Parse below only touches flags the user actually passed.
	config.LoadFromEnv(cfg)

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("goping %s\n", version)
		return nil
	}

	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(config.DefaultVerbosity + cfg.Verbose)
	collector := metrics.New()

	mode, err := core.Build(cfg, logger, collector)
	if err != nil {
		return err
	}

	runErr := mode.Run(ctx)
	logger.Debug("run stats: %s", collector.Snapshot())
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

func parsePositional(cfg *config.Config, remaining []string) error {
	if cfg.Listen {
		if len(remaining) > 0 {
			return fmt.Errorf("listen mode takes no positional arguments")
		}
		return nil
	}

	// Connect mode: host port
	if len(remaining) < 1 {
		return fmt.Errorf("hostname required (use --help for usage)")
	}
	cfg.Host = remaining[0]

	if len(remaining) < 2 {
		return fmt.Errorf("port required")
	}
	if len(remaining) > 2 {
		return fmt.Errorf("too many arguments")
	}

	port, err := parsePort(remaining[1])
	if err != nil {
		return err
	}
	cfg.Port = port
	return nil
}

func parsePort(arg string) (int, error) {
	port, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", arg)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `GoPing – TCP ping/pong exerciser v%s

A server that answers "ping" with "pong" across many simultaneous
connections, and a client that pings once per interval no matter how
the network behaves.

Usage:
  goping [options] <host> <port>     Connect and ping once per interval
  goping -l -p <port> [options]      Listen and answer pings with pongs

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  goping -l -p 8080                  Serve pongs on port 8080
  goping 127.0.0.1 8080              Ping localhost once per second
  goping -i 250ms -c 20 host 9000    Send 20 pings at 4 per second
  GOPING_LISTEN=1 GOPING_PORT=8080 goping -l    Configure via environment
`)
}
