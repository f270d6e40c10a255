package memory

import (
	"bytes"
	"context"
	"sync/atomic"

	"github.com/yndnr/teataster-go/internal/storage"
	"github.com/yndnr/teataster-go/pkg/cmap"
)

// KV is a storage.KVEngine over a sharded concurrent map.
type KV struct {
	items  *cmap.Map[[]byte]
	closed atomic.Bool
}

var _ storage.KVEngine = (*KV)(nil)

// New creates an empty in-memory KV.
func New() *KV {
	return &KV{items: cmap.New[[]byte]()}
}

// Get retrieves a copy of the value stored under key.
func (kv *KV) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := kv.check(ctx); err != nil {
		return nil, err
	}
	val, ok := kv.items.Get(string(key))
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	return bytes.Clone(val), nil
}

// Set stores a copy of value under key.
func (kv *KV) Set(ctx context.Context, key, value []byte) error {
	if err := kv.check(ctx); err != nil {
		return err
	}
	kv.items.Set(string(key), bytes.Clone(value))
	return nil
}

// Delete removes key.
func (kv *KV) Delete(ctx context.Context, key []byte) error {
	if err := kv.check(ctx); err != nil {
		return err
	}
	kv.items.Delete(string(key))
	return nil
}

// Scan visits keys with the given prefix in lexical order.
func (kv *KV) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if err := kv.check(ctx); err != nil {
		return err
	}
	for _, k := range kv.items.KeysWithPrefix(string(prefix)) {
		val, ok := kv.items.Get(k)
		if !ok {
			continue
		}
		if !fn([]byte(k), bytes.Clone(val)) {
			break
		}
	}
	return nil
}

// Len returns the number of stored keys.
func (kv *KV) Len() int {
	return kv.items.Count()
}

// Close drops all data. Later calls return storage.ErrClosed.
func (kv *KV) Close() error {
	if kv.closed.CompareAndSwap(false, true) {
		kv.items.Clear()
	}
	return nil
}

func (kv *KV) check(ctx context.Context) error {
	if kv.closed.Load() {
		return storage.ErrClosed
	}
	return ctx.Err()
}
