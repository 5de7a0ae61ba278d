package core

import (
	"fmt"
	"net"

	"goping/config"
	"goping/internal/errors"
	"goping/internal/metrics"
	"goping/internal/retry"
	"goping/internal/transport"
	"goping/util"
)

// Build constructs the appropriate Mode from the given configuration.
// This is the single dispatch point between the two halves of the
// tool.
func Build(cfg *config.Config, logger *util.Logger, collector *metrics.Collector) (Mode, error) {
	if cfg.Listen {
		return buildListen(cfg, logger, collector), nil
	}
	return buildConnect(cfg, logger, collector)
}

// ── mode builders ────────────────────────────────────────────────────

func buildConnect(cfg *config.Config, logger *util.Logger, collector *metrics.Collector) (Mode, error) {
	if cfg.NoDNS && net.ParseIP(cfg.Host) == nil {
		return nil, &errors.ConfigError{
			Field:   "no-dns",
			Value:   cfg.Host,
			Message: "cannot parse host as an IP address",
			Hint:    "drop -n or use a numeric address",
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = config.DefaultDialTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = config.DefaultInterval
	}

	return &ConnectMode{
		Dialer:   &transport.TCPDialer{Timeout: timeout},
		Address:  util.FormatAddr(cfg.Host, cfg.Port),
		Interval: interval,
		Count:    cfg.Count,
		Logger:   logger,
		Metrics:  collector,
	}, nil
}

func buildListen(cfg *config.Config, logger *util.Logger, collector *metrics.Collector) Mode {
	backoff := retry.DefaultBackoff()
	backoff.MaxDelay = config.DefaultAcceptBackoffMax
	return &ListenMode{
		Address:       fmt.Sprintf(":%d", cfg.LocalPort),
		Backlog:       config.DefaultListenBacklog,
		Logger:        logger,
		Metrics:       collector,
		AcceptBackoff: backoff,
	}
}
