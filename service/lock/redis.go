package lock

import (
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/service/redis"
)

const (
	defaultRetryInterval = 50 * time.Millisecond
)

type redisLocker struct {
	redis         redis.Service
	retryInterval time.Duration
}

// NewRedis returns a Locker shared by every instance using the same redis.
// Each holder writes a random token so an expired holder can't release a
// lock that someone else acquired since.
func NewRedis(r redis.Service) domain.Locker {
	return &redisLocker{
		redis:         r,
		retryInterval: defaultRetryInterval,
	}
}

func (l *redisLocker) Lock(c ctx.Ctx, key string, ttl time.Duration) (func(), error) {
	token := []byte(uuid.NewString())

	for {
		ok, err := l.redis.SetNX(c, key, token, ttl)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "key": key}).Error("redis.SetNX failed")
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-c.Done():
			return nil, domain.ErrLockNotAcquired
		case <-time.After(l.retryInterval):
		}
	}

	return func() {
		// the caller may have been cancelled, release regardless
		if _, err := l.redis.CompareAndDel(ctx.Background(), key, token); err != nil {
			c.WithFields(log.Fields{"err": err, "key": key}).Warn("release lock failed, waiting for ttl")
		}
	}, nil
}
