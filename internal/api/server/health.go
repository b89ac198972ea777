package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) bool

func (f HealthCheckFunc) Healthy(ctx context.Context) bool { return f(ctx) }

// AlwaysHealthy is used when the API runs without a result store.
var AlwaysHealthy HealthChecker = HealthCheckFunc(func(context.Context) bool { return true })
