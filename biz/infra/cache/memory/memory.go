package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache"
)

type entry struct {
	value  string
	count  int64
	expire time.Time
}

// Store 基于内存的cache.Store实现, 用于测试与单机dry_run
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Store {
	return &Store{entries: make(map[string]entry), now: time.Now}
}

// NewWithClock 注入时钟, 便于测试窗口过期
func NewWithClock(now func() time.Time) *Store {
	return &Store{entries: make(map[string]entry), now: now}
}

var _ cache.Store = (*Store)(nil)

func (s *Store) get(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok || s.now().After(e.expire) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok {
		return "", cache.Nil
	}
	return e.value, nil
}

func (s *Store) SetEx(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expire: s.now().Add(ttl)}
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *Store) IncrEx(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok {
		e = entry{expire: s.now().Add(ttl)}
	}
	e.count++
	e.value = strconv.FormatInt(e.count, 10)
	s.entries[key] = e
	return e.count, nil
}

func (s *Store) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok {
		return -2, nil
	}
	return e.expire.Sub(s.now()), nil
}
