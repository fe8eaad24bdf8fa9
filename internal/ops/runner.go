// Package ops wraps fallible operations with bounded fixed-delay retry,
// cooperative cancellation, and error normalization. Cancellation is
// cooperative only: an in-flight operation runs to completion and the cancel
// flag merely suppresses the resulting state commit.
package ops

import (
	"context"
	"sync"
	"time"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Operation is any fallible unit of work.
type Operation func(ctx context.Context) (any, error)

type Options struct {
	// RetryAttempts is the number of re-invocations after the first failure.
	RetryAttempts int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
}

// Status is the UI-facing view of a runner.
type Status struct {
	Loading bool                `json:"loading"`
	Success bool                `json:"success"`
	Error   *apperrors.AppError `json:"error,omitempty"`
}

// Runner executes one operation at a time through the
// idle -> loading -> {success|error} machine.
type Runner struct {
	log *zap.Logger

	mu        sync.Mutex
	state     State
	result    any
	err       *apperrors.AppError
	cancelled bool
	lastOp    Operation
	lastOpts  Options
}

func NewRunner(log *zap.Logger) *Runner {
	return &Runner{log: log, state: StateIdle}
}

// Run executes op with the given options. The cancel flag is checked before
// and after every invocation, so a cancelled run never commits state or a
// result observed after the flag was set.
func (r *Runner) Run(ctx context.Context, op Operation, opts Options) (any, error) {
	r.mu.Lock()
	r.state = StateLoading
	r.err = nil
	r.cancelled = false
	r.lastOp = op
	r.lastOpts = opts
	r.mu.Unlock()

	return r.execute(ctx, op, opts)
}

// Retry re-enters loading from either terminal state using the last-invoked
// operation and options.
func (r *Runner) Retry(ctx context.Context) (any, error) {
	r.mu.Lock()
	op := r.lastOp
	opts := r.lastOpts
	if op == nil {
		r.mu.Unlock()
		return nil, apperrors.New(apperrors.CodeOperationFailed, "nothing to retry")
	}
	r.state = StateLoading
	r.err = nil
	r.cancelled = false
	r.mu.Unlock()

	return r.execute(ctx, op, opts)
}

func (r *Runner) execute(ctx context.Context, op Operation, opts Options) (result any, err error) {
	attempts := opts.RetryAttempts + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if r.isCancelled() || ctx.Err() != nil {
			return nil, r.abort()
		}

		result, lastErr = r.invoke(ctx, op)

		if r.isCancelled() {
			return nil, r.abort()
		}
		if lastErr == nil {
			r.commit(result, nil)
			return result, nil
		}
		if attempt < attempts-1 {
			if r.log != nil {
				r.log.Debug("operation failed, retrying",
					zap.Int("attempt", attempt+1),
					zap.Error(lastErr),
				)
			}
			select {
			case <-ctx.Done():
				return nil, r.abort()
			case <-time.After(opts.RetryDelay):
			}
		}
	}

	app := apperrors.Normalize(lastErr)
	r.commit(nil, app)
	return nil, app
}

// invoke calls op, converting panics into normalized errors so a misbehaving
// operation cannot take the runner down.
func (r *Runner) invoke(ctx context.Context, op Operation) (result any, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = apperrors.FromPanic(v)
		}
	}()
	return op(ctx)
}

func (r *Runner) commit(result any, appErr *apperrors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// A cancel racing the commit wins: leave the machine idle.
	if r.cancelled {
		r.state = StateIdle
		return
	}
	if appErr != nil {
		r.state = StateError
		r.err = appErr
		return
	}
	r.state = StateSuccess
	r.result = result
	r.err = nil
}

func (r *Runner) abort() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateLoading {
		r.state = StateIdle
	}
	return apperrors.New(apperrors.CodeCancelled, "operation cancelled")
}

// Cancel requests cancellation. An in-flight operation still runs to
// completion; its result is simply never committed. A result committed
// before the flag was observed stays in place.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
	if r.state == StateLoading {
		r.state = StateIdle
	}
}

// Reset returns the machine to idle and clears any result.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateIdle
	r.result = nil
	r.err = nil
	r.cancelled = false
}

func (r *Runner) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Result returns the last committed result, if any.
func (r *Runner) Result() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		Loading: r.state == StateLoading,
		Success: r.state == StateSuccess,
		Error:   r.err,
	}
}

// Do is the one-shot helper for callers that need retry semantics without
// tracking runner state, such as worker jobs.
func Do(ctx context.Context, log *zap.Logger, op Operation, opts Options) (any, error) {
	return NewRunner(log).Run(ctx, op, opts)
}
