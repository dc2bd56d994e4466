package lock

import (
	"context"
	"fmt"
	"time"
)

// Locker serialises work on a key across concurrent requests.
type Locker interface {
	// Acquire blocks until the key is held or the wait budget runs out, in
	// which case ErrCartBusy is returned. The release func is safe to call
	// more than once.
	Acquire(ctx context.Context, key string) (func(), error)
}

// Options tunes lock behaviour.
type Options struct {
	// TTL bounds how long a Redis lock survives a crashed holder.
	TTL time.Duration
	// Wait bounds how long Acquire keeps retrying.
	Wait time.Duration
}

const (
	defaultTTL  = 10 * time.Second
	defaultWait = 3 * time.Second
)

func (o Options) normalize() Options {
	if o.TTL <= 0 {
		o.TTL = defaultTTL
	}
	if o.Wait <= 0 {
		o.Wait = defaultWait
	}
	return o
}

// CartKey is the lock key guarding a customer's cart.
func CartKey(customerID int64) string {
	return fmt.Sprintf("cart:%d", customerID)
}
