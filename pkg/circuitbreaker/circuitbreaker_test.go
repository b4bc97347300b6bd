package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errDownstream = errors.New("downstream failed")

func failing() error { return errDownstream }
func succeeding() error { return nil }

func testConfig() Config {
	return Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             10 * time.Millisecond,
		HalfOpenMaxRequests: 2,
	}
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); !errors.Is(err, errDownstream) {
			t.Fatalf("call %d: expected downstream error, got %v", i, err)
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open after %d failures, got %v", 3, cb.GetState())
	}

	if err := cb.Execute(succeeding); !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Fatalf("open breaker must reject calls, got %v", err)
	}
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	cb := New(testConfig())

	_ = cb.Execute(failing)
	_ = cb.Execute(failing)
	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	_ = cb.Execute(failing)
	_ = cb.Execute(failing)

	if cb.GetState() != StateClosed {
		t.Fatal("non-consecutive failures must not trip the breaker")
	}
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 3; i++ {
		_ = cb.Execute(failing)
	}
	time.Sleep(15 * time.Millisecond)

	// Two successful probes close the breaker again.
	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("first probe: %v", err)
	}
	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("second probe: %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Fatalf("expected closed after successful probes, got %v", cb.GetState())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 3; i++ {
		_ = cb.Execute(failing)
	}
	time.Sleep(15 * time.Millisecond)

	if err := cb.Execute(failing); !errors.Is(err, errDownstream) {
		t.Fatalf("probe should run, got %v", err)
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("failed probe must reopen, got %v", cb.GetState())
	}
}

func TestReset(t *testing.T) {
	cb := New(testConfig())
	for i := 0; i < 3; i++ {
		_ = cb.Execute(failing)
	}
	cb.Reset()
	if cb.GetState() != StateClosed {
		t.Fatal("reset must close the breaker")
	}
	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("reset breaker must allow calls, got %v", err)
	}
}
