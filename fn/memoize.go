package bfn

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Memo caches fn's results by a key derived from its arguments. The cache is
// unbounded: entries leave only through Delete or Clear.
type Memo[A, R any] struct {
	fn     func(args ...A) (R, error)
	key    func(args ...A) (string, error)
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]R
	group singleflight.Group
}

// Memoize caches fn by the default argument key (see Key).
func Memoize[A, R any](fn func(args ...A) (R, error), opts ...Option) *Memo[A, R] {
	return newMemo(fn, Key[A], opts)
}

// MemoizeBy caches fn by resolver(args...). Argument lists that resolve to the
// same string share an entry.
func MemoizeBy[A, R any](fn func(args ...A) (R, error), resolver func(args ...A) string, opts ...Option) *Memo[A, R] {
	return newMemo(fn, func(args ...A) (string, error) { return resolver(args...), nil }, opts)
}

func newMemo[A, R any](fn func(args ...A) (R, error), key func(args ...A) (string, error), opts []Option) *Memo[A, R] {
	cfg := newConfig(opts)
	return &Memo[A, R]{
		fn:     fn,
		key:    key,
		logger: cfg.logger.With(zap.String("wrapper", "memoize")),
		cache:  make(map[string]R),
	}
}

// Call returns the cached result for args, computing and storing it on a
// miss. Errors and panics from fn are not cached. Concurrent misses on one
// key share a single call to fn.
func (m *Memo[A, R]) Call(args ...A) (R, error) {
	var zero R

	key, err := m.key(args...)
	if err != nil {
		return zero, err
	}

	if v, ok := m.load(key); ok {
		m.logger.Debug("hit", zap.String("key", key))
		return v, nil
	}

	v, err, shared := m.group.Do(key, func() (any, error) {
		// another caller may have stored it between our load and Do
		if v, ok := m.load(key); ok {
			return v, nil
		}

		m.logger.Debug("miss", zap.String("key", key))
		v, err := m.fn(args...)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.cache[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		m.logger.Debug("not cached", zap.String("key", key), zap.Bool("shared", shared), zap.Error(err))
		return zero, err
	}
	r, _ := v.(R)
	return r, nil
}

// Has reports whether args have a cached result. It never calls fn.
func (m *Memo[A, R]) Has(args ...A) bool {
	key, err := m.key(args...)
	if err != nil {
		return false
	}
	_, ok := m.load(key)
	return ok
}

// Delete drops the cached result for args, if any. A miss for the same key
// that is still computing when Delete runs stores its result afterwards, so
// the entry reappears.
func (m *Memo[A, R]) Delete(args ...A) {
	key, err := m.key(args...)
	if err != nil {
		return
	}

	m.mu.Lock()
	delete(m.cache, key)
	m.mu.Unlock()

	m.logger.Debug("deleted", zap.String("key", key))
}

// Clear drops every cached result.
func (m *Memo[A, R]) Clear() {
	m.mu.Lock()
	clear(m.cache)
	m.mu.Unlock()

	m.logger.Debug("cleared")
}

func (m *Memo[A, R]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

func (m *Memo[A, R]) load(key string) (R, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.cache[key]
	return v, ok
}
