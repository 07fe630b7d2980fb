package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open trial request to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open trial request, got %s", state)
	}
}

func TestCircuitBreaker_StatsCountTripsAndRejections(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if stats := b.Stats(); stats.State != CircuitStateClosed || stats.OpenedAt != nil {
		t.Fatalf("unexpected initial stats %+v", stats)
	}

	b.RecordFailure()
	_ = b.Allow()
	_ = b.Allow()

	stats := b.Stats()
	if stats.State != CircuitStateOpen || stats.Trips != 1 || stats.Rejected != 2 {
		t.Fatalf("unexpected stats after trip %+v", stats)
	}
	if stats.OpenedAt == nil || !stats.OpenedAt.Equal(now) {
		t.Fatalf("expected opened_at %s, got %v", now, stats.OpenedAt)
	}

	now = now.Add(2 * time.Minute)
	if stats := b.Stats(); stats.State != CircuitStateHalfOpen {
		t.Fatalf("expected expired open window to report half-open, got %s", stats.State)
	}
}

func TestCircuitBreakerConfig_WithDefaultsFillsUnsetLimits(t *testing.T) {
	cfg := CircuitBreakerConfig{Enabled: true, FailureThreshold: 3}.WithDefaults()
	if cfg.FailureThreshold != 3 || cfg.OpenTimeout != 15*time.Second || cfg.HalfOpenMaxReq != 2 || !cfg.Enabled {
		t.Fatalf("unexpected normalized config %+v", cfg)
	}
}
