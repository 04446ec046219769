// Package aggregate runs a primary fetch and then fans out, concurrently, to
// the dependent records the primary refers to.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

const defaultLimit = 8

// Result is a primary value plus the dependents that loaded successfully.
// A key missing from Dependents failed to load; its error is in Failed.
type Result[P any, K comparable, V any] struct {
	Primary    P
	Dependents map[K]V
	Failed     map[K]error
}

// Lookup returns the dependent stored for k.
func (r Result[P, K, V]) Lookup(k K) (V, bool) {
	v, ok := r.Dependents[k]
	return v, ok
}

type options struct {
	name  string
	limit int
}

type Option func(*options)

// WithName labels log lines and metrics for this aggregation.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLimit caps the number of dependent fetches in flight. Values below 1
// leave the default in place.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// Run awaits primary, extracts dependent keys from its result, and fetches
// every distinct key concurrently. A primary failure fails the whole call.
// Dependent failures are logged and left out of the result.
func Run[P any, K comparable, V any](
	ctx context.Context,
	primary func(ctx context.Context) (P, error),
	keys func(P) []K,
	dependent func(ctx context.Context, key K) (V, error),
	opts ...Option,
) (Result[P, K, V], error) {
	o := buildOptions(opts)

	p, err := primary(ctx)
	if err != nil {
		return Result[P, K, V]{}, fmt.Errorf("%s: primary fetch: %w", o.name, err)
	}

	deps, failed := fanOut(ctx, DistinctKeys(keys(p)), dependent, o)
	return Result[P, K, V]{Primary: p, Dependents: deps, Failed: failed}, nil
}

// FanOut fetches every distinct key concurrently and returns the successes
// and the failures keyed the same way.
func FanOut[K comparable, V any](
	ctx context.Context,
	keys []K,
	dependent func(ctx context.Context, key K) (V, error),
	opts ...Option,
) (map[K]V, map[K]error) {
	return fanOut(ctx, DistinctKeys(keys), dependent, buildOptions(opts))
}

func fanOut[K comparable, V any](
	ctx context.Context,
	keys []K,
	dependent func(ctx context.Context, key K) (V, error),
	o options,
) (map[K]V, map[K]error) {
	var (
		mu     sync.Mutex
		deps   = make(map[K]V, len(keys))
		failed = make(map[K]error)
	)

	var g errgroup.Group
	g.SetLimit(o.limit)
	for _, key := range keys {
		g.Go(func() error {
			v, err := dependent(ctx, key)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[key] = err
				return nil
			}
			deps[key] = v
			return nil
		})
	}
	// Every goroutine returns nil so one failure never cancels its siblings.
	_ = g.Wait()

	for key, err := range failed {
		dependentFailures.WithLabelValues(o.name).Inc()
		slog.Warn("Dependent fetch failed, omitting key", "aggregation", o.name, "key", key, "error", err)
	}
	dependentFetches.WithLabelValues(o.name).Add(float64(len(keys)))
	return deps, failed
}

// DistinctKeys removes duplicates and zero values from keys, keeping the
// first occurrence order.
func DistinctKeys[K comparable](keys []K) []K {
	var zero K
	seen := make(map[K]struct{}, len(keys))
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if k == zero {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func buildOptions(opts []Option) options {
	o := options{name: "aggregate", limit: defaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
