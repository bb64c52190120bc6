package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Connectivity reports whether the remote store is reachable right now.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// ConnectivityFunc adapts a function to the Connectivity interface.
type ConnectivityFunc func(ctx context.Context) bool

func (f ConnectivityFunc) Online(ctx context.Context) bool { return f(ctx) }

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthConnectivity probes the server health endpoint, caching the verdict
// for a short window so back-to-back operations don't each pay a round trip.
type HealthConnectivity struct {
	remote healthChecker
	log    *slog.Logger

	mu       sync.Mutex
	lastSeen time.Time
	lastOK   bool
	window   time.Duration
}

func NewHealthConnectivity(remote healthChecker, log *slog.Logger) *HealthConnectivity {
	return &HealthConnectivity{
		remote: remote,
		log:    log,
		window: 5 * time.Second,
	}
}

func (c *HealthConnectivity) Online(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.lastSeen) < c.window {
		return c.lastOK
	}

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := c.remote.HealthCheck(probeCtx)
	c.lastSeen = time.Now()
	c.lastOK = err == nil
	if err != nil {
		c.log.Debug("connectivity probe failed", "error", err)
	}
	return c.lastOK
}
