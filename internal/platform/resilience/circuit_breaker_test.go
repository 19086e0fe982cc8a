package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(3, time.Minute, 1)

	for i := 0; i < 2; i++ {
		if err := breaker.Allow(); err != nil {
			t.Fatalf("closed breaker must allow, got %v", err)
		}
		breaker.RecordFailure()
	}
	if breaker.State() != CircuitStateClosed {
		t.Fatalf("expected closed below threshold, got %s", breaker.State())
	}

	breaker.RecordFailure()
	if breaker.State() != CircuitStateOpen {
		t.Fatalf("expected open at threshold, got %s", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker must reject, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(2, time.Minute, 1)

	breaker.RecordFailure()
	breaker.RecordSuccess()
	breaker.RecordFailure()

	if breaker.State() != CircuitStateClosed {
		t.Fatalf("interleaved success should reset the count, got %s", breaker.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(1, 20*time.Millisecond, 1)

	breaker.RecordFailure()
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected rejection while open, got %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	if breaker.State() != CircuitStateHalfOpen {
		t.Fatalf("expected half_open after the open timeout, got %s", breaker.State())
	}

	// One probe is allowed, a second concurrent one is not.
	if err := breaker.Allow(); err != nil {
		t.Fatalf("half_open must admit a probe, got %v", err)
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("probe budget exceeded, expected rejection, got %v", err)
	}

	breaker.RecordSuccess()
	if breaker.State() != CircuitStateClosed {
		t.Fatalf("successful probe should close, got %s", breaker.State())
	}
	if err := breaker.Allow(); err != nil {
		t.Fatalf("closed breaker must allow, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(1, 20*time.Millisecond, 1)

	breaker.RecordFailure()
	time.Sleep(30 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("half_open must admit a probe, got %v", err)
	}
	breaker.RecordFailure()

	if breaker.State() != CircuitStateOpen {
		t.Fatalf("failed probe should reopen, got %s", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected rejection after reopen, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	t.Parallel()

	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	defaults := DefaultCircuitBreakerConfig()

	if cfg.FailureThreshold != defaults.FailureThreshold {
		t.Fatalf("threshold not defaulted: %d", cfg.FailureThreshold)
	}
	if cfg.OpenTimeout != defaults.OpenTimeout {
		t.Fatalf("open timeout not defaulted: %s", cfg.OpenTimeout)
	}
	if cfg.HalfOpenMaxReq != defaults.HalfOpenMaxReq {
		t.Fatalf("half-open budget not defaulted: %d", cfg.HalfOpenMaxReq)
	}

	custom := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 9,
		OpenTimeout:      time.Second,
		HalfOpenMaxReq:   3,
	})
	if custom.FailureThreshold != 9 || custom.OpenTimeout != time.Second || custom.HalfOpenMaxReq != 3 {
		t.Fatalf("explicit values must survive: %+v", custom)
	}
}
