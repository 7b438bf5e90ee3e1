package easyapi

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

// Operation is the fetch an Orchestrator drives. When cancellation is enabled
// ctx is the call's token context and is cancelled on supersession or Abort;
// the operation should return promptly once it is.
type Operation[A, T any] func(ctx context.Context, arg A) (T, error)

// Orchestrator manages the lifecycle of one Operation: loading, result and
// error state, cached results, and cancellation of superseded calls.
// All methods are safe for concurrent use.
type Orchestrator[A, T any] struct {
	op        Operation[A, T]
	cfg       settings
	log       zerolog.Logger
	canceller Canceller
	stopScope func() bool
	initial   *Future[T]

	mu        sync.Mutex
	state     State[T]
	listeners []listener[T]
	nextID    uint64
}

type listener[T any] struct {
	id uint64
	fn func(State[T])
}

// invocation is the bookkeeping for one call that reaches the operation.
type invocation struct {
	key   string
	token *Token
	ctx   context.Context
}

// New creates an Orchestrator for op. Cancelling ctx aborts any live call, as
// does Close. With WithCallOnInit the initial call is started before New
// returns.
func New[A, T any](ctx context.Context, op Operation[A, T], opts ...Option) (*Orchestrator[A, T], error) {
	if op == nil {
		return nil, fmt.Errorf("%w: nil operation", ErrInvalidOption)
	}
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ttl < 0 {
		return nil, fmt.Errorf("%w: negative cache TTL %s", ErrInvalidOption, cfg.ttl)
	}
	if cfg.ttl > 0 && cfg.store == nil {
		return nil, fmt.Errorf("%w: cache TTL set without a cache store", ErrInvalidOption)
	}
	if cfg.namespace == "" {
		cfg.namespace = namespaceFor[T]()
	}

	var initialArg A
	if cfg.callOnInit && cfg.initialArg != nil {
		v, ok := cfg.initialArg.(A)
		if !ok {
			return nil, fmt.Errorf("%w: initial argument of type %T is not %s",
				ErrInvalidOption, cfg.initialArg, reflect.TypeFor[A]())
		}
		initialArg = v
	}

	o := &Orchestrator[A, T]{
		op:    op,
		cfg:   cfg,
		log:   cfg.logger.With().Str("component", "easyapi").Str("namespace", cfg.namespace).Logger(),
		state: State[T]{IsLoading: cfg.callOnInit},
	}
	o.stopScope = context.AfterFunc(ctx, o.Abort)

	if cfg.callOnInit {
		// A nil initial argument is keyed as DefaultKey whatever A is; the
		// operation receives the zero A.
		var keyArg any = initialArg
		if cfg.initialArg == nil {
			keyArg = nil
		}
		o.initial = o.callAsync(ctx, initialArg, keyArg, false)
	}
	return o, nil
}

// Call runs the operation for arg, or answers from the cache when caching is
// enabled and a fresh entry exists. The operation's error is always returned,
// even when a newer call or Abort has stopped it from reaching the state.
func (o *Orchestrator[A, T]) Call(ctx context.Context, arg A) (T, error) {
	return o.call(ctx, arg, false)
}

// CallFresh is Call with the cache read skipped. A successful result still
// refreshes the cache entry.
func (o *Orchestrator[A, T]) CallFresh(ctx context.Context, arg A) (T, error) {
	return o.call(ctx, arg, true)
}

func (o *Orchestrator[A, T]) call(ctx context.Context, arg A, forceFresh bool) (T, error) {
	c, cached, hit, err := o.prepare(ctx, arg, forceFresh)
	if err != nil || hit {
		return cached, err
	}
	val, err := o.execute(c, arg)
	if p, ok := err.(*PanicError); ok {
		panic(p)
	}
	return val, err
}

// CallAsync starts a call and returns its pending outcome. The cache lookup,
// supersession of the previous call and the switch to loading have all
// happened by the time it returns.
func (o *Orchestrator[A, T]) CallAsync(ctx context.Context, arg A, forceFresh bool) *Future[T] {
	return o.callAsync(ctx, arg, arg, forceFresh)
}

func (o *Orchestrator[A, T]) callAsync(ctx context.Context, arg A, keyArg any, forceFresh bool) *Future[T] {
	c, cached, hit, err := o.prepare(ctx, keyArg, forceFresh)
	if err != nil || hit {
		f := newFuture[T]()
		f.resolve(cached, err)
		return f
	}
	f := newFuture[T]()
	go func() {
		f.resolve(o.execute(c, arg))
	}()
	return f
}

// prepare performs everything up to the operation invocation. The cache key
// is derived from keyArg. hit reports a cache short-circuit with its
// value in cached; a hit leaves any call in flight untouched.
func (o *Orchestrator[A, T]) prepare(ctx context.Context, keyArg any, forceFresh bool) (c *invocation, cached T, hit bool, err error) {
	c = &invocation{ctx: ctx}

	if o.cfg.store != nil {
		c.key, err = fullKey(o.cfg.namespace, keyArg)
		if err != nil {
			return nil, cached, false, err
		}
		if !forceFresh {
			if v, ok := o.lookup(c.key); ok {
				o.answerFromCache(c.key, v)
				return c, v, true, nil
			}
		}
	}

	if o.cfg.useCancellation {
		tok, prev := o.canceller.Next(ctx)
		if prev != nil {
			o.emit(EventSuperseded, c.key, prev.ID())
			o.log.Debug().Str("token", prev.ID()).Msg("call superseded")
		}
		c.token = tok
		c.ctx = tok.Context()
	}

	o.emit(EventMiss, c.key, c.tokenID())
	o.log.Debug().Str("key", c.key).Str("token", c.tokenID()).Bool("fresh", forceFresh).Msg("invoking operation")
	o.apply(c.token, func(st *State[T]) {
		st.Status = StatusLoading
		st.IsLoading = true
	})
	return c, cached, false, nil
}

func (o *Orchestrator[A, T]) lookup(key string) (T, bool) {
	var zero T
	ent, res := o.cfg.store.Lookup(key, o.cfg.ttl, o.cfg.clock.Now())
	switch res {
	case LookupHit:
		if ent.Value == nil {
			return zero, true
		}
		v, ok := ent.Value.(T)
		if !ok {
			o.log.Warn().Str("key", key).Str("type", fmt.Sprintf("%T", ent.Value)).Msg("cached value has unexpected type")
		}
		return v, ok
	case LookupExpired:
		o.emit(EventExpired, key, "")
		o.log.Debug().Str("key", key).Msg("cache entry expired")
	}
	return zero, false
}

func (o *Orchestrator[A, T]) answerFromCache(key string, v T) {
	o.apply(nil, func(st *State[T]) {
		st.Status = StatusSuccess
		st.IsLoading = false
		st.Result = v
		st.HasResult = true
		st.Err = nil
	})
	o.emit(EventHit, key, "")
	o.log.Debug().Str("key", key).Msg("cache hit")
}

// execute invokes the operation and settles the call. A panic in the
// operation is recovered and returned as *PanicError.
func (o *Orchestrator[A, T]) execute(c *invocation, arg A) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			val, err = zero, &PanicError{Value: r, Stack: debug.Stack()}
		}
		o.settle(c, val, err)
	}()
	return o.op(c.ctx, arg)
}

func (o *Orchestrator[A, T]) settle(c *invocation, val T, err error) {
	if c.token != nil {
		defer o.canceller.settle(c.token)
	}

	applied := o.apply(c.token, func(st *State[T]) {
		st.IsLoading = false
		if err != nil {
			var zero T
			st.Status = StatusFailure
			st.Result = zero
			st.HasResult = false
			st.Err = err
			return
		}
		st.Status = StatusSuccess
		st.Result = val
		st.HasResult = true
		st.Err = nil
		if o.cfg.store != nil {
			o.cfg.store.Set(c.key, val, o.cfg.clock.Now())
		}
	})

	switch {
	case !applied:
		o.emit(EventDiscarded, c.key, c.tokenID())
		o.log.Debug().Str("token", c.tokenID()).Err(c.token.Cause()).Msg("discarding outcome of cancelled call")
	case err != nil:
		o.log.Debug().Str("key", c.key).Str("token", c.tokenID()).Err(err).Msg("operation failed")
	case o.cfg.store != nil:
		o.emit(EventStored, c.key, c.tokenID())
		o.log.Debug().Str("key", c.key).Str("token", c.tokenID()).Msg("result cached")
	}
}

// apply mutates the state unless tok has been cancelled, then notifies
// listeners with the new snapshot.
func (o *Orchestrator[A, T]) apply(tok *Token, mutate func(*State[T])) bool {
	o.mu.Lock()
	if tok != nil && tok.Cancelled() {
		o.mu.Unlock()
		return false
	}
	mutate(&o.state)
	o.state.Seq++
	snap := o.state
	ls := make([]listener[T], len(o.listeners))
	copy(ls, o.listeners)
	o.mu.Unlock()

	for _, l := range ls {
		l.fn(snap)
	}
	return true
}

// Abort cancels the live call, if any. The call still returns its own outcome
// to its caller; only its effect on state and cache is suppressed. Abort is a
// no-op without WithCancellation.
func (o *Orchestrator[A, T]) Abort() {
	if !o.cfg.useCancellation {
		return
	}
	if tok := o.canceller.Cancel(ErrAborted); tok != nil {
		o.emit(EventAborted, "", tok.ID())
		o.log.Debug().Str("token", tok.ID()).Msg("call aborted")
	}
}

// Close aborts the live call and detaches the orchestrator from the context
// it was created with.
func (o *Orchestrator[A, T]) Close() {
	o.stopScope()
	o.Abort()
}

// State returns the current state snapshot.
func (o *Orchestrator[A, T]) State() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// OnStateChange registers fn to receive every new state snapshot. fn runs on
// the goroutine that changed the state and must not block. The returned
// function unregisters it.
func (o *Orchestrator[A, T]) OnStateChange(fn func(State[T])) (unsubscribe func()) {
	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, listener[T]{id: id, fn: fn})
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, l := range o.listeners {
			if l.id == id {
				o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
				return
			}
		}
	}
}

// InitialCall returns the future of the call started by WithCallOnInit,
// or nil.
func (o *Orchestrator[A, T]) InitialCall() *Future[T] {
	return o.initial
}

// Key returns the cache key arg maps to.
func (o *Orchestrator[A, T]) Key(arg A) (string, error) {
	return fullKey(o.cfg.namespace, arg)
}

// Invalidate removes the cached entry for arg. It does nothing when caching
// is disabled.
func (o *Orchestrator[A, T]) Invalidate(arg A) error {
	if o.cfg.store == nil {
		return nil
	}
	key, err := o.Key(arg)
	if err != nil {
		return err
	}
	o.cfg.store.Delete(key)
	return nil
}

func (o *Orchestrator[A, T]) emit(event Event, key, tokenID string) {
	if o.cfg.observer == nil {
		return
	}
	o.cfg.observer.On(EventData{
		Event:   event,
		Key:     key,
		TokenID: tokenID,
	})
}

func (c *invocation) tokenID() string {
	if c.token == nil {
		return ""
	}
	return c.token.ID()
}
