// Package mutex provides the exclusive lock that serializes repository
// operations. Local guards a single process; Redis extends the same guarantee
// to every process sharing a Redis server via redsync.
package mutex

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis"
	"github.com/pkg/errors"
)

const (
	defaultKey    = "botconfig:repository"
	defaultExpiry = 30 * time.Second
)

// Locker acquires an exclusive lock. The returned release func must be called
// exactly once.
type Locker interface {
	Lock(ctx context.Context) (release func(), err error)
}

// Local is an in-process exclusive lock whose acquisition honours context
// cancellation. The zero value is not usable; call NewLocal.
type Local struct {
	sem chan struct{}
}

// NewLocal returns an unlocked Local.
func NewLocal() *Local {
	return &Local{sem: make(chan struct{}, 1)}
}

// Lock blocks until the lock is held or ctx is done.
func (l *Local) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Redis is a cross-process lock backed by a single redsync mutex. A Local is
// taken first because a redsync.Mutex is not safe for concurrent use.
type Redis struct {
	local *Local
	m     *redsync.Mutex
}

// NewRedis builds a Redis lock on the server at address. Empty key and zero
// expiry fall back to defaults.
func NewRedis(address, key string, expiry time.Duration) *Redis {
	if key == "" {
		key = defaultKey
	}
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	client := redis.NewClient(&redis.Options{Addr: address})
	pool := goredis.NewPool(client)
	rs := redsync.New(pool)
	return &Redis{
		local: NewLocal(),
		m:     rs.NewMutex(key, redsync.WithExpiry(expiry)),
	}
}

// Lock acquires the local lock and then the redis mutex.
func (r *Redis) Lock(ctx context.Context) (func(), error) {
	releaseLocal, err := r.local.Lock(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.m.LockContext(ctx); err != nil {
		releaseLocal()
		return nil, errors.Wrap(err, "acquire redis lock")
	}
	return func() {
		// An expired lock fails to unlock; the key is gone either way.
		_, _ = r.m.UnlockContext(context.Background())
		releaseLocal()
	}, nil
}

var (
	_ Locker = (*Local)(nil)
	_ Locker = (*Redis)(nil)
)
