package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// mockOperation fails with transientErr until failUntil, then returns fatalErr once or succeeds.
type mockOperation struct {
	invocations int
	failUntil   int
	fatalErr    error
}

func (m *mockOperation) execute(_ context.Context) error {
	m.invocations++
	if m.invocations < m.failUntil {
		return &pgconn.PgError{Code: "08006", Message: "connection failure"}
	}
	if m.invocations == m.failUntil && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts, WithInitialDelay(time.Millisecond), WithMaxDelay(2*time.Millisecond), WithJitter(0))
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	op := &mockOperation{failUntil: 1}
	err := NewExecutor(NewConnectClassifier(), fastBackoff(3)).Execute(context.Background(), op.execute)
	if err != nil || op.invocations != 1 {
		t.Errorf("err=%v invocations=%d, want nil and 1", err, op.invocations)
	}
}

func TestExecutor_SuccessAfterRetries(t *testing.T) {
	op := &mockOperation{failUntil: 3}
	var retries []int
	executor := NewExecutor(NewConnectClassifier(), fastBackoff(5)).WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		retries = append(retries, attempt)
	})

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if op.invocations != 3 {
		t.Errorf("invocations = %d, want 3", op.invocations)
	}
	if len(retries) != 2 || retries[0] != 0 || retries[1] != 1 {
		t.Errorf("retries = %v, want [0 1]", retries)
	}
}

func TestExecutor_FatalErrorStopsImmediately(t *testing.T) {
	fatal := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	op := &mockOperation{failUntil: 1, fatalErr: fatal}

	err := NewExecutor(NewConnectClassifier(), fastBackoff(5)).Execute(context.Background(), op.execute)
	if !errors.Is(err, fatal) {
		t.Errorf("Execute() = %v, want %v", err, fatal)
	}
	if op.invocations != 1 {
		t.Errorf("invocations = %d, want 1", op.invocations)
	}
}

func TestExecutor_ExhaustsAttempts(t *testing.T) {
	op := &mockOperation{failUntil: 100}
	err := NewExecutor(NewConnectClassifier(), fastBackoff(2)).Execute(context.Background(), op.execute)

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "08006" {
		t.Errorf("Execute() = %v, want last transient error", err)
	}
	if op.invocations != 3 {
		t.Errorf("invocations = %d, want 3 (1 initial + 2 retries)", op.invocations)
	}
}

func TestExecutor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	op := &mockOperation{failUntil: 100}
	executor := NewExecutor(NewConnectClassifier(), fastBackoff(-1)).WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		if attempt == 1 {
			cancel()
		}
	})

	if err := executor.Execute(ctx, op.execute); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil classifier")
		}
	}()
	NewExecutor(nil, fastBackoff(1))
}
