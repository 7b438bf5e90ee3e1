package easyapi

import (
	"time"

	"github.com/rs/zerolog"
)

// Clock supplies the current time. Tests substitute a fake to control TTLs.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

type settings struct {
	callOnInit      bool
	initialArg      any
	useCancellation bool
	store           *Store
	ttl             time.Duration
	namespace       string
	observer        Observer
	logger          zerolog.Logger
	clock           Clock
}

func defaultSettings() settings {
	return settings{
		logger: zerolog.Nop(),
		clock:  wallClock{},
	}
}

// Option configures an Orchestrator created by New.
type Option func(*settings)

// WithCallOnInit issues Call(arg) as soon as the orchestrator is created.
// arg must be assignable to the orchestrator's argument type; pass nil or
// NoArg{} for operations without input.
func WithCallOnInit(arg any) Option {
	return func(s *settings) {
		s.callOnInit = true
		s.initialArg = arg
	}
}

// WithCancellation gives each call its own cancellable token and makes every
// new call supersede the previous one. Without it Abort is a no-op.
func WithCancellation() Option {
	return func(s *settings) {
		s.useCancellation = true
	}
}

// WithCache enables caching of successful results in store.
func WithCache(store *Store) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithCacheTTL treats cached entries older than ttl as absent.
// Without it entries never expire.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

// WithNamespace prefixes every cache key with ns. Orchestrators sharing a
// store and a namespace share entries. The default namespace is the name of
// the result type.
func WithNamespace(ns string) Option {
	return func(s *settings) {
		s.namespace = ns
	}
}

// WithObserver attaches an Observer that receives hit, miss, expiry,
// store and cancellation events.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithLogger sets the logger used for debug tracing of calls.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithClock overrides the time source used for cache timestamps.
func WithClock(c Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}
