package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/befa-admin/pkg/metrics"
)

// Redis connection constants.
const (
	redisDialTimeout  = 5 * time.Second
	redisReadTimeout  = 3 * time.Second
	redisWriteTimeout = 3 * time.Second
	redisPingTimeout  = 5 * time.Second
)

// RedisKV is the subset of the go-redis command surface the store needs.
type RedisKV interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	MSet(ctx context.Context, values ...interface{}) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps the session under three prefixed keys so several operator
// shells on different hosts share one sign-in.
type RedisStore struct {
	mu     sync.Mutex
	kv     RedisKV
	prefix string
	closer io.Closer
}

// NewRedisStore wraps an existing client.
func NewRedisStore(kv RedisKV, prefix string) *RedisStore {
	s := &RedisStore{kv: kv, prefix: prefix}
	if c, ok := kv.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// DialRedis connects to addr, verifies the connection and returns a store.
func DialRedis(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: no redis address provided", ErrStoreUnavailable)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisReadTimeout,
		WriteTimeout: redisWriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: connect to redis at %s: %w", ErrStoreUnavailable, addr, err)
	}
	return NewRedisStore(rdb, prefix), nil
}

func (r *RedisStore) keys() []string {
	return []string{r.prefix + KeyAccessToken, r.prefix + KeyRefreshToken, r.prefix + KeyUser}
}

// Get reads all three keys in one round trip. Missing keys are empty fields.
func (r *RedisStore) Get(ctx context.Context) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(ctx)
}

func (r *RedisStore) get(ctx context.Context) (Session, error) {
	vals, err := r.kv.MGet(ctx, r.keys()...).Result()
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if len(vals) != 3 {
		return Session{}, fmt.Errorf("%w: expected 3 values, got %d", ErrCorruptSession, len(vals))
	}
	str := func(v interface{}) string {
		s, _ := v.(string)
		return s
	}
	s := Session{AccessToken: str(vals[0]), RefreshToken: str(vals[1])}
	if u := str(vals[2]); u != "" {
		if !json.Valid([]byte(u)) {
			return Session{}, fmt.Errorf("%w: user is not JSON", ErrCorruptSession)
		}
		s.User = json.RawMessage(u)
	}
	return s, nil
}

// Set writes all three keys atomically with MSET.
func (r *RedisStore) Set(ctx context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.set(ctx, s); err != nil {
		return err
	}
	metrics.RecordSessionWrite("redis", "set")
	return nil
}

func (r *RedisStore) set(ctx context.Context, s Session) error {
	k := r.keys()
	err := r.kv.MSet(ctx, k[0], s.AccessToken, k[1], s.RefreshToken, k[2], string(s.User)).Err()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear deletes the keys.
func (r *RedisStore) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.kv.Del(ctx, r.keys()...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	metrics.RecordSessionWrite("redis", "clear")
	return nil
}

// Update serializes the read/modify/write within this process.
func (r *RedisStore) Update(ctx context.Context, fn func(*Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(ctx)
	if err != nil {
		return err
	}
	fn(&s)
	if err := r.set(ctx, s); err != nil {
		return err
	}
	metrics.RecordSessionWrite("redis", "set")
	return nil
}

// Close releases the underlying client when the store owns one.
func (r *RedisStore) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
