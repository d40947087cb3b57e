package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
)

const (
	// Forever means the key never expires
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")
	// ErrNoTTL is returned by TTL when the key exists without expire
	ErrNoTTL = errors.New("redis key has no ttl")
)

// Service is the subset of redis commands the auction house needs
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetNX returns false if the key already exists
	SetNX(c ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error)
	Del(c ctx.Ctx, keys ...string) (int, error)
	Exists(c ctx.Ctx, key string) (bool, error)
	// TTL in seconds
	TTL(c ctx.Ctx, key string) (int, error)
	// CompareAndDel removes key only if it still holds val
	CompareAndDel(c ctx.Ctx, key string, val []byte) (bool, error)
	Ping(c ctx.Ctx) error
}
