package resilience

import "time"

// CircuitBreakerConfig guards one upstream. Zero values fall back to the
// defaults when the breaker is built.
type CircuitBreakerConfig struct {
	Enabled bool
	// FailureThreshold is the number of consecutive failures that trips it.
	FailureThreshold int
	// OpenTimeout is how long requests are rejected before probing again.
	OpenTimeout time.Duration
	// HalfOpenMaxReq trial requests must all succeed to close it.
	HalfOpenMaxReq int
}

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenMaxReq   = 2
)

// WithDefaults fills unset or out-of-range limits. Enabled is left as given.
func (c CircuitBreakerConfig) WithDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return c
}
