package executor

import (
	"context"

	"github.com/mdflow/mdflow/internal/core/token"
)

// Future is the caller's view of one graph run. It completes exactly once,
// either with the exit node's output tokens or with an error.
type Future struct {
	done   chan struct{}
	tokens []*token.Token
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete is called by the owning handler, at most once.
func (f *Future) complete(tokens []*token.Token, err error) {
	f.tokens = tokens
	f.err = err
	close(f.done)
}

// Done returns a channel closed when the run has completed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the run completes or ctx is done, and returns the exit
// node's output tokens.
func (f *Future) Wait(ctx context.Context) ([]*token.Token, error) {
	select {
	case <-f.done:
		return f.tokens, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome of a completed run. It must only be called
// after Done is closed.
func (f *Future) Result() ([]*token.Token, error) {
	return f.tokens, f.err
}
