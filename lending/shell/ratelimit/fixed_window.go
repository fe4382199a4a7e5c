package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix       = "library:ratelimit"
	defaultRedisTimeout = 2 * time.Second
	unknownKey          = "unknown"
)

var (
	ErrInvalidLimit     = errors.New("rate limiter requires positive limit and window")
	ErrMissingRedisAddr = errors.New("rate limiter redis addr is required")
	ErrNilRedisClient   = errors.New("rate limiter redis client must not be nil")
	ErrRedisFailed      = errors.New("rate limiter redis call failed")
)

// INCR creates the key with 1, only then the expiry is set, so the window never slides.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// FixedWindowLimiter allows limit calls per key in each window.
type FixedWindowLimiter struct {
	limit  int
	window time.Duration

	client  *redis.Client
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

// Option configures a FixedWindowLimiter.
type Option func(*FixedWindowLimiter)

// WithClock replaces time.Now for computing the window slot.
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindowLimiter) {
		l.now = now
	}
}

// WithRedisTimeout bounds each Redis round trip, default 2s.
func WithRedisTimeout(timeout time.Duration) Option {
	return func(l *FixedWindowLimiter) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// NewRedisFixedWindowLimiter connects lazily to the Redis at addr.
func NewRedisFixedWindowLimiter(
	addr string,
	password string,
	prefix string,
	limit int,
	window time.Duration,
	opts ...Option,
) (*FixedWindowLimiter, error) {

	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrMissingRedisAddr
	}

	return NewFixedWindowLimiter(redis.NewClient(&redis.Options{Addr: addr, Password: password}), prefix, limit, window, opts...)
}

// NewFixedWindowLimiter uses an existing client, Close closes it.
func NewFixedWindowLimiter(
	client *redis.Client,
	prefix string,
	limit int,
	window time.Duration,
	opts ...Option,
) (*FixedWindowLimiter, error) {

	if client == nil {
		return nil, ErrNilRedisClient
	}

	if limit <= 0 || window < time.Millisecond {
		return nil, ErrInvalidLimit
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}

	l := &FixedWindowLimiter{
		limit:   limit,
		window:  window,
		client:  client,
		prefix:  prefix,
		timeout: defaultRedisTimeout,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Allow counts one call for key. On Redis failures it fails closed: the call is denied and the error returned.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = unknownKey
	}

	windowMs := l.window.Milliseconds()
	nowMs := l.now().UTC().UnixMilli()
	slot := nowMs / windowMs
	retryAfter := time.Duration((slot+1)*windowMs-nowMs) * time.Millisecond

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	count, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return Decision{Allowed: false, RetryAfter: retryAfter}, errors.Join(ErrRedisFailed, err)
	}

	if count > int64(l.limit) {
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	return Decision{Allowed: true, Remaining: l.limit - int(count)}, nil
}

func (l *FixedWindowLimiter) Close() error {
	return l.client.Close()
}
