package pg

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const DefaultPingTimeout = 2 * time.Second

// HealthChecker reports the result store as healthy while the pool can
// reach the database. Only transitions are logged.
type HealthChecker struct {
	pool    *ConnectionPool
	timeout time.Duration
	down    atomic.Bool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{pool: pool, timeout: DefaultPingTimeout}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		hc.mark(false, nil)
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	err := hc.pool.Ping(ctx)
	hc.mark(err == nil, err)
	return err == nil
}

func (hc *HealthChecker) mark(ok bool, err error) {
	wasDown := hc.down.Swap(!ok)
	switch {
	case !ok && !wasDown:
		slog.Warn("Result store unreachable", "error", err)
	case ok && wasDown:
		slog.Info("Result store reachable again")
	}
}
