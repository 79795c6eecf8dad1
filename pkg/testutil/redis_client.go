package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient keeps objects in memory unless a function field overrides
// the call.
type MockRedisClient struct {
	ExistFunc  func(ctx context.Context, key string) (bool, error)
	DelFunc    func(ctx context.Context, keys ...string) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc func(ctx context.Context, key string, v any) error

	mu    sync.Mutex
	store map[string][]byte
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{store: map[string][]byte{}}
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[key]
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.store, key)
	}

	return nil
}

func (m *MockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.counter(key)
	if err != nil {
		return 0, err
	}

	n++
	if m.store == nil {
		m.store = map[string][]byte{}
	}
	m.store[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (m *MockRedisClient) GetInt(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter(key)
}

func (m *MockRedisClient) counter(key string) (int64, error) {
	b, ok := m.store[key]
	if !ok {
		return 0, nil
	}

	return strconv.ParseInt(string(b), 10, 64)
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		m.store = map[string][]byte{}
	}
	m.store[key] = b
	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	m.mu.Lock()
	b, ok := m.store[key]
	m.mu.Unlock()
	if !ok {
		return redis.Nil
	}

	return json.Unmarshal(b, v)
}

func (m *MockRedisClient) Close() error {
	return nil
}
