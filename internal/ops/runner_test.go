package ops

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"go.uber.org/zap"
)

func TestRunSuccess(t *testing.T) {
	r := NewRunner(zap.NewNop())

	result, err := r.Run(context.Background(), func(ctx context.Context) (any, error) {
		return 42, nil
	}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result != 42 {
		t.Errorf("result = %v, want 42", result)
	}

	status := r.Status()
	if status.Loading || !status.Success || status.Error != nil {
		t.Errorf("status = %+v, want success", status)
	}
}

func TestRunRetriesThenSucceeds(t *testing.T) {
	r := NewRunner(zap.NewNop())

	calls := 0
	result, err := r.Run(context.Background(), func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}, Options{RetryAttempts: 1, RetryDelay: time.Millisecond})

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}

	status := r.Status()
	if status.Loading || !status.Success || status.Error != nil {
		t.Errorf("status = %+v, want {loading:false success:true error:nil}", status)
	}
}

func TestRunExhaustsRetries(t *testing.T) {
	r := NewRunner(zap.NewNop())

	calls := 0
	_, err := r.Run(context.Background(), func(ctx context.Context) (any, error) {
		calls++
		return nil, apperrors.New(apperrors.CodeNetworkError, "unreachable")
	}, Options{RetryAttempts: 2, RetryDelay: time.Millisecond})

	if calls != 3 {
		t.Errorf("calls = %d, want 3 (1 initial + 2 retries)", calls)
	}
	if !apperrors.Is(err, apperrors.CodeNetworkError) {
		t.Errorf("error code = %q, want NETWORK_ERROR", apperrors.Code(err))
	}
	if r.State() != StateError {
		t.Errorf("state = %v, want error", r.State())
	}
}

func TestRunNormalizesPanics(t *testing.T) {
	r := NewRunner(zap.NewNop())

	_, err := r.Run(context.Background(), func(ctx context.Context) (any, error) {
		panic("boom")
	}, Options{})

	if !apperrors.Is(err, apperrors.CodeUnknown) {
		t.Errorf("error code = %q, want UNKNOWN_ERROR", apperrors.Code(err))
	}
	if r.State() != StateError {
		t.Errorf("state = %v, want error", r.State())
	}
}

func TestCancelSuppressesCommit(t *testing.T) {
	r := NewRunner(zap.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = r.Run(context.Background(), func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "late", nil
		}, Options{})
	}()

	<-started
	r.Cancel()
	close(release)
	<-done

	if r.State() != StateIdle {
		t.Errorf("state = %v, want idle after cancel", r.State())
	}
	if r.Result() != nil {
		t.Errorf("result = %v, want nil (cancelled run must not commit)", r.Result())
	}
}

func TestCancelKeepsCommittedResult(t *testing.T) {
	r := NewRunner(zap.NewNop())

	_, err := r.Run(context.Background(), func(ctx context.Context) (any, error) {
		return "committed", nil
	}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	r.Cancel()
	if r.Result() != "committed" {
		t.Errorf("result = %v, want committed result kept after late cancel", r.Result())
	}
}

func TestRetryReRunsLastOperation(t *testing.T) {
	r := NewRunner(zap.NewNop())

	calls := 0
	_, _ = r.Run(context.Background(), func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("first pass fails")
		}
		return calls, nil
	}, Options{})

	if r.State() != StateError {
		t.Fatalf("state = %v, want error before retry", r.State())
	}

	result, err := r.Retry(context.Background())
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if result != 2 {
		t.Errorf("result = %v, want 2", result)
	}
	if r.State() != StateSuccess {
		t.Errorf("state = %v, want success", r.State())
	}
}

func TestRetryWithoutPriorRun(t *testing.T) {
	r := NewRunner(zap.NewNop())
	_, err := r.Retry(context.Background())
	if !apperrors.Is(err, apperrors.CodeOperationFailed) {
		t.Errorf("error code = %q, want OPERATION_FAILED", apperrors.Code(err))
	}
}

func TestRunRespectsContextCancellation(t *testing.T) {
	r := NewRunner(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, func(ctx context.Context) (any, error) {
		t.Error("operation should not run with a cancelled context")
		return nil, nil
	}, Options{})

	if !apperrors.Is(err, apperrors.CodeCancelled) {
		t.Errorf("error code = %q, want CANCELLED", apperrors.Code(err))
	}
}

func TestReset(t *testing.T) {
	r := NewRunner(zap.NewNop())
	_, _ = r.Run(context.Background(), func(ctx context.Context) (any, error) {
		return 1, nil
	}, Options{})

	r.Reset()
	if r.State() != StateIdle || r.Result() != nil {
		t.Errorf("state=%v result=%v, want idle and nil", r.State(), r.Result())
	}
}
