// Package board implements the hiring board operations on top of a db.Store.
//
// Every operation runs through a fault Policy that delays the call and may fail
// writes before they touch the store, simulating an unreliable backend. Multi-row
// writes run inside a single store transaction.
package board

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/talentflow/internal/db"
)

// Engine is the simulated board backend
type Engine struct {
	store  db.Store
	policy Policy
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithPolicy replaces the default simulated policy
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithLogger sets the logger used for per-call records
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClock overrides time.Now for timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine over store. Without options it uses DefaultPolicyConfig and a no-op logger.
func New(store db.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		policy: NewSimulatedPolicy(DefaultPolicyConfig()),
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// wait blocks for the policy latency or until ctx is done
func (e *Engine) wait(ctx context.Context) error {
	d := e.policy.Latency()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// call runs fn behind the policy: delay, maybe fail a write, execute, log.
func call[T any](ctx context.Context, e *Engine, op string, kind OpKind, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	log := e.log.With().
		Str("call_id", uuid.NewString()).
		Str("op", op).
		Stringer("kind", kind).
		Logger()
	start := time.Now()

	if err := e.wait(ctx); err != nil {
		log.Debug().Err(err).Msg("call cancelled")
		return zero, err
	}

	if kind == OpWrite && e.policy.Fail(kind) {
		log.Warn().Msg("injected write failure")
		return zero, &ErrTransient{Op: op}
	}

	out, err := fn(ctx)
	if err != nil {
		log.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("call failed")
		return zero, err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("call completed")
	return out, nil
}

// notFound converts a missing row into a caller-visible error
func notFound[T any](v *T, entity string, id int64) (*T, error) {
	if v == nil {
		return nil, &db.ErrNotFound{Entity: entity, ID: id}
	}
	return v, nil
}
