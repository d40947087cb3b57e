package domain

import (
	"errors"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
)

var ErrLockNotAcquired = errors.New("lock not acquired")

// Transactor runs a unit of work atomically. Nested calls join the outer
// transaction.
type Transactor interface {
	RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error
}

// Locker serializes work on a key across goroutines and, for shared
// implementations, across instances.
type Locker interface {
	Lock(c ctx.Ctx, key string, ttl time.Duration) (unlock func(), err error)
}
