package tokenfakerepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-storefront-session/token"
)

var _ token.KV = (*FakeKV)(nil)

// FakeKV is an in-memory token.KV
type FakeKV struct {
	values map[string]string
	lock   sync.RWMutex

	// FailWith, when set, is returned from every operation
	FailWith error
}

func NewFakeKV() *FakeKV {
	return &FakeKV{
		values: make(map[string]string),
	}
}

// NewFakeStore returns a token store backed by a fresh FakeKV
func NewFakeStore() (*token.Store, *FakeKV) {
	kv := NewFakeKV()
	return token.NewStore(kv), kv
}

func (kv *FakeKV) Get(_ context.Context, key string) (string, error) {
	kv.lock.RLock()
	defer kv.lock.RUnlock()

	if kv.FailWith != nil {
		return "", kv.FailWith
	}
	value, ok := kv.values[key]
	if !ok {
		return "", token.ErrNotFound
	}
	return value, nil
}

func (kv *FakeKV) Set(_ context.Context, key, value string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()

	if kv.FailWith != nil {
		return kv.FailWith
	}
	kv.values[key] = value
	return nil
}

func (kv *FakeKV) Delete(_ context.Context, keys ...string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()

	if kv.FailWith != nil {
		return kv.FailWith
	}
	for _, key := range keys {
		delete(kv.values, key)
	}
	return nil
}

// Len returns the number of stored keys
func (kv *FakeKV) Len() int {
	kv.lock.RLock()
	defer kv.lock.RUnlock()
	return len(kv.values)
}
