package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HananelSabag/SpendWise-sub004/domain"
	"github.com/HananelSabag/SpendWise-sub004/resilience"
)

func TestRetryWithBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 3, InitialBackoff: time.Millisecond}

	attempts := 0
	err := resilience.RetryWithBackoff(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoff_StopsOnDeterministicError(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 5, InitialBackoff: time.Millisecond}

	attempts := 0
	err := resilience.RetryWithBackoff(context.Background(), cfg, func() error {
		attempts++
		return &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	})

	var ev *domain.ErrValidation
	if !errors.As(err, &ev) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("deterministic errors must not retry, got %d attempts", attempts)
	}
}

func TestRetryWithBackoff_RespectsContext(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 10, InitialBackoff: 50 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := resilience.RetryWithBackoff(ctx, cfg, func() error {
		return errors.New("always failing")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	if resilience.Retryable(&domain.ErrConflict{Resource: "transaction", ID: "tx-1"}) {
		t.Error("conflicts must not be retryable")
	}
	if resilience.Retryable(&domain.ErrNotFound{Resource: "template", ID: "t-1"}) {
		t.Error("not-found must not be retryable")
	}
	if !resilience.Retryable(&domain.ErrNetwork{Operation: "list", Err: errors.New("timeout")}) {
		t.Error("network errors must be retryable")
	}
	if !resilience.Retryable(errors.New("unknown")) {
		t.Error("unknown errors default to retryable")
	}
}

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := resilience.NewBulkhead(1)

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire must succeed, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := b.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected second acquire to block until deadline, got %v", err)
	}

	b.Release()
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire after release must succeed, got %v", err)
	}
}
