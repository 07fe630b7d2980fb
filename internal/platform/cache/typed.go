package cache

import (
	"context"
	"fmt"
)

// Typed narrows a Store to a single value type.
type Typed[V any] struct {
	store *Store
}

func NewTyped[V any](store *Store) *Typed[V] {
	return &Typed[V]{store: store}
}

func (t *Typed[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	v, err := t.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero V
		return zero, err
	}

	typed, ok := v.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("cache key %q holds %T", key, v)
	}
	return typed, nil
}

func (t *Typed[V]) Delete(ctx context.Context, key string) {
	t.store.Delete(ctx, key)
}
