package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain/keys"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2

	// retTTLNoExpire is the return value of TTL when the key exists but has
	// no associated expire
	retTTLNoExpire = -1
)

var compareAndDelScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New wraps a redigo pool
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name)
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) connDo(commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn()
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// release the connection as soon as the reply is read
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) tags(fn, key string) []string {
	return []string{"func", fn, "cluster", r.name, "prefix", keys.GetPrefix(key)}
}

func (r *redImpl) Get(c ctx.Ctx, key string) ([]byte, error) {
	tags := r.tags("get", key)
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.connDo("GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("GET redis failed")
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	return val, nil
}

func (r *redImpl) Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := r.tags("set", key)
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	args := []interface{}{key, val}
	if expire != Forever {
		args = append(args, "PX", int64(expire/time.Millisecond))
	}
	if _, err := r.connDo("SET", args...); err != nil {
		c.WithField("err", err).WithField("key", key).Error("SET redis failed")
		return err
	}
	return nil
}

func (r *redImpl) SetNX(c ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error) {
	tags := r.tags("setnx", key)
	defer r.met.BumpTime("time", tags...).End()

	args := []interface{}{key, val, "NX"}
	if expire != Forever {
		args = append(args, "PX", int64(expire/time.Millisecond))
	}
	_, err := redis.String(r.connDo("SET", args...))
	if err == redis.ErrNil {
		return false, nil
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("SET NX redis failed")
		return false, err
	}
	return true, nil
}

func (r *redImpl) Del(c ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, nil
	}
	defer r.met.BumpTime("time", r.tags("del", ks[0])...).End()

	n, err := redis.Int(r.connDo("DEL", redis.Args{}.AddFlat(ks)...))
	if err != nil {
		c.WithField("err", err).WithField("keys", ks).Error("DEL redis failed")
		return 0, err
	}
	return n, nil
}

func (r *redImpl) Exists(c ctx.Ctx, key string) (bool, error) {
	defer r.met.BumpTime("time", r.tags("exists", key)...).End()

	res, err := redis.Bool(r.connDo("EXISTS", key))
	if err != nil {
		c.WithField("err", err).WithField("key", key).Error("EXISTS redis failed")
	}
	return res, err
}

func (r *redImpl) TTL(c ctx.Ctx, key string) (int, error) {
	defer r.met.BumpTime("time", r.tags("ttl", key)...).End()

	res, err := redis.Int(r.connDo("TTL", key))
	if err != nil {
		c.WithField("err", err).WithField("key", key).Error("TTL redis failed")
		return 0, err
	}

	if res == retTTLNoKey {
		return res, ErrNotFound
	} else if res == retTTLNoExpire {
		return res, ErrNoTTL
	}
	return res, nil
}

func (r *redImpl) CompareAndDel(c ctx.Ctx, key string, val []byte) (bool, error) {
	defer r.met.BumpTime("time", r.tags("compareanddel", key)...).End()

	conn, err := r.getConn()
	if err != nil {
		return false, err
	}
	defer conn.Close()

	n, err := redis.Int(compareAndDelScript.Do(conn, key, val))
	if err != nil {
		c.WithField("err", err).WithField("key", key).Error("compareAndDel script failed")
		return false, err
	}
	return n == 1, nil
}

func (r *redImpl) Ping(c ctx.Ctx) error {
	_, err := r.connDo("PING")
	return err
}
