package lock

import (
	"context"
	"fmt"
	"sync"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

type localEntry struct {
	sem  chan struct{}
	refs int
}

// LocalLocker is an in-process keyed mutex used when Redis is not configured.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	opts    Options
}

// NewLocalLocker constructs LocalLocker.
func NewLocalLocker(opts Options) *LocalLocker {
	return &LocalLocker{entries: make(map[string]*localEntry), opts: opts.normalize()}
}

// Acquire implements Locker.
func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, l.opts.Wait)
	defer cancel()

	select {
	case entry.sem <- struct{}{}:
	case <-waitCtx.Done():
		l.unref(key, entry)
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrCartBusy, waitCtx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.sem
			l.unref(key, entry)
		})
	}, nil
}

func (l *LocalLocker) unref(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
