// Package resource holds the fetch state of a single screen dependency:
// the latest data, whether a fetch is in flight, and the last error.
package resource

import (
	"context"
	"log/slog"
	"sync"
)

// FetchFunc loads a value for the given parameters.
type FetchFunc[P, T any] func(ctx context.Context, params P) (T, error)

// Policy decides which of several overlapping fetches owns the state.
type Policy int

const (
	// DiscardStale tags every fetch with a generation and drops results from
	// any fetch that is older than the newest one issued.
	DiscardStale Policy = iota
	// LastWriteWins lets whichever fetch settles last overwrite the state,
	// regardless of the order the fetches were started in.
	LastWriteWins
)

func (p Policy) String() string {
	switch p {
	case DiscardStale:
		return "discard-stale"
	case LastWriteWins:
		return "last-write-wins"
	default:
		return "unknown"
	}
}

// Config configures a Resource.
type Config[P, T any] struct {
	// Name is used in log lines only.
	Name   string
	Fetch  FetchFunc[P, T]
	Params P
	// Skip suppresses the fetch on Activate; only Refetch loads data.
	Skip   bool
	Policy Policy
}

// State is a point-in-time view of a Resource.
type State[T any] struct {
	Data    T
	HasData bool
	Loading bool
	Err     error
	// Generation is the number of the fetch that last wrote Data or Err.
	Generation uint64
}

// Resource tracks data, loading and error for one fetch function.
// It is safe for concurrent use.
type Resource[P, T any] struct {
	name   string
	fetch  FetchFunc[P, T]
	skip   bool
	policy Policy

	mu        sync.Mutex
	params    P
	state     State[T]
	issued    uint64
	inFlight  int
	listeners map[int]func(State[T])
	nextID    int
}

func New[P, T any](cfg Config[P, T]) *Resource[P, T] {
	if cfg.Fetch == nil {
		panic("resource: Fetch cannot be nil")
	}
	return &Resource[P, T]{
		name:      cfg.Name,
		fetch:     cfg.Fetch,
		skip:      cfg.Skip,
		policy:    cfg.Policy,
		params:    cfg.Params,
		listeners: make(map[int]func(State[T])),
	}
}

// Activate runs the initial fetch with the configured params unless the
// resource was created with Skip. The returned error is the fetch error, if any.
func (r *Resource[P, T]) Activate(ctx context.Context) error {
	if r.skip {
		return nil
	}
	_, err := r.Refetch(ctx, r.Params())
	return err
}

// Refetch stores params as the current parameters and loads them. It blocks
// until the fetch settles and returns that fetch's own result, even when the
// result was not allowed to update the shared state. Overlapping calls are
// not cancelled.
func (r *Resource[P, T]) Refetch(ctx context.Context, params P) (T, error) {
	r.mu.Lock()
	r.params = params
	r.issued++
	gen := r.issued
	r.inFlight++
	r.state.Loading = true
	r.state.Err = nil
	snap := r.state
	r.mu.Unlock()
	r.notify(snap)

	data, err := r.fetch(ctx, params)

	r.mu.Lock()
	r.inFlight--
	if r.policy == DiscardStale && gen != r.issued {
		r.mu.Unlock()
		slog.Debug("Discarding stale fetch result", "resource", r.name, "generation", gen, "latest", r.issued)
		return data, err
	}
	if err != nil {
		// Keep the last good Data visible.
		r.state.Err = err
	} else {
		r.state.Data = data
		r.state.HasData = true
		r.state.Err = nil
	}
	r.state.Generation = gen
	if r.policy == DiscardStale {
		r.state.Loading = false
	} else {
		r.state.Loading = r.inFlight > 0
	}
	snap = r.state
	r.mu.Unlock()

	if err != nil {
		slog.Warn("Fetch failed", "resource", r.name, "generation", gen, "error", err)
	}
	r.notify(snap)
	return data, err
}

// Params returns the parameters of the most recent fetch, or the configured
// ones if nothing has been fetched yet.
func (r *Resource[P, T]) Params() P {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

func (r *Resource[P, T]) Snapshot() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers fn to be called with every state change. fn is called
// outside the resource's lock. The returned func removes the subscription.
func (r *Resource[P, T]) Subscribe(fn func(State[T])) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Resource[P, T]) notify(s State[T]) {
	r.mu.Lock()
	fns := make([]func(State[T]), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
