package runner

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is returned by Checkpoint once a job has been cancelled.
var ErrCancelled = errors.New("job cancelled")

// token is the cooperative pause/cancel flag for one running job. The runner
// consults it only between pipeline stages; a stage already in flight always
// runs to completion.
type token struct {
	mu        sync.Mutex
	paused    bool
	resumeCh  chan struct{}
	cancelled bool
	cancelCh  chan struct{}
}

func newToken() *token {
	return &token{
		resumeCh: make(chan struct{}),
		cancelCh: make(chan struct{}),
	}
}

func (t *token) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused || t.cancelled {
		return
	}
	t.paused = true
	t.resumeCh = make(chan struct{})
}

func (t *token) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.paused {
		return
	}
	t.paused = false
	close(t.resumeCh)
}

func (t *token) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	close(t.cancelCh)
}

func (t *token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Checkpoint blocks while the job is paused and returns ErrCancelled once the
// job is cancelled. Called between stages, never inside one.
func (t *token) Checkpoint(ctx context.Context) error {
	for {
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			return ErrCancelled
		}
		if !t.paused {
			t.mu.Unlock()
			return nil
		}
		resumeCh := t.resumeCh
		t.mu.Unlock()

		select {
		case <-resumeCh:
		case <-t.cancelCh:
			return ErrCancelled
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
