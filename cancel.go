package easyapi

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrSuperseded is the cancellation cause of a token replaced by a newer call.
	ErrSuperseded = errors.New("easyapi: call superseded")
	// ErrAborted is the cancellation cause of a token cancelled by Abort.
	ErrAborted = errors.New("easyapi: call aborted")
)

type tokenKey struct{}

// Token represents one in-flight call. Once cancelled it stays cancelled.
//
// The token's Context is what the operation receives; operations observe
// cancellation through it and are expected to stop early on their own.
type Token struct {
	id     string
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu    sync.Mutex
	cause error
}

func newToken(parent context.Context) *Token {
	t := &Token{id: uuid.NewString()}
	ctx, cancel := context.WithCancelCause(parent)
	t.ctx = context.WithValue(ctx, tokenKey{}, t)
	t.cancel = cancel
	return t
}

// TokenFromContext returns the token carried by ctx, or nil when the
// operation was invoked without cancellation.
func TokenFromContext(ctx context.Context) *Token {
	t, _ := ctx.Value(tokenKey{}).(*Token)
	return t
}

// ID returns the token's unique identifier.
func (t *Token) ID() string { return t.id }

// Context returns the context handed to the operation.
func (t *Token) Context() context.Context { return t.ctx }

// Done is closed when the token is cancelled or its parent context ends.
func (t *Token) Done() <-chan struct{} { return t.ctx.Done() }

// Cancelled reports whether the token was signalled by supersession or abort.
// Cancellation of the parent context does not count.
func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cause != nil
}

// Cause returns ErrSuperseded or ErrAborted once cancelled, nil before.
func (t *Token) Cause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cause
}

// signal cancels the token with cause. Only the first signal counts.
func (t *Token) signal(cause error) bool {
	t.mu.Lock()
	if t.cause != nil {
		t.mu.Unlock()
		return false
	}
	t.cause = cause
	t.mu.Unlock()
	t.cancel(cause)
	return true
}

// release frees the context resources of a token whose call has settled.
// It does not mark the token cancelled.
func (t *Token) release() {
	t.cancel(context.Canceled)
}

// Canceller owns at most one live token. Issuing a new token cancels the
// previous one.
type Canceller struct {
	mu      sync.Mutex
	current *Token
}

// Next cancels the current token with ErrSuperseded and installs a new one
// derived from parent. It returns the new token and the superseded one, if any.
func (c *Canceller) Next(parent context.Context) (next, prev *Token) {
	next = newToken(parent)
	c.mu.Lock()
	prev = c.current
	c.current = next
	c.mu.Unlock()
	if prev != nil && !prev.signal(ErrSuperseded) {
		prev = nil
	}
	return next, prev
}

// Cancel signals the current token with cause and returns it. It returns nil
// when there is no live token, so calling it twice is harmless.
func (c *Canceller) Cancel(cause error) *Token {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()
	if cur == nil || !cur.signal(cause) {
		return nil
	}
	return cur
}

// Current returns the most recently issued token, which may already be
// cancelled or settled.
func (c *Canceller) Current() *Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// settle clears t as the current token if nothing replaced it.
func (c *Canceller) settle(t *Token) {
	c.mu.Lock()
	if c.current == t {
		c.current = nil
	}
	c.mu.Unlock()
	t.release()
}
