package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/shell/ratelimit"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func givenLimiter(t *testing.T, limit int, window time.Duration) (*ratelimit.FixedWindowLimiter, *miniredis.Miniredis, *fakeClock) {
	t.Helper()

	server := miniredis.RunT(t)
	clock := &fakeClock{now: time.Unix(0, 0).UTC()}

	limiter, err := ratelimit.NewRedisFixedWindowLimiter(
		server.Addr(), "", "test:ratelimit", limit, window, ratelimit.WithClock(clock.Now),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = limiter.Close() })

	return limiter, server, clock
}

func Test_FixedWindowLimiter_DeniesCallsAboveTheLimit(t *testing.T) {
	// arrange
	ctx := context.Background()
	limiter, _, clock := givenLimiter(t, 2, time.Minute)
	clock.now = clock.now.Add(15 * time.Second)

	// act
	first, err1 := limiter.Allow(ctx, "user-1")
	second, err2 := limiter.Allow(ctx, "user-1")
	third, err3 := limiter.Allow(ctx, "user-1")

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)
	assert.False(t, third.Allowed)
	assert.Equal(t, 45*time.Second, third.RetryAfter)
}

func Test_FixedWindowLimiter_CountsKeysSeparately(t *testing.T) {
	// arrange
	ctx := context.Background()
	limiter, _, _ := givenLimiter(t, 1, time.Minute)

	// act
	user1, err1 := limiter.Allow(ctx, "user-1")
	user2, err2 := limiter.Allow(ctx, "user-2")

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, user1.Allowed)
	assert.True(t, user2.Allowed)
}

func Test_FixedWindowLimiter_AllowsAgain_InTheNextWindow(t *testing.T) {
	// arrange
	ctx := context.Background()
	limiter, _, clock := givenLimiter(t, 1, time.Minute)
	_, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	denied, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, denied.Allowed)

	// act
	clock.now = clock.now.Add(time.Minute)
	allowed, err := limiter.Allow(ctx, "user-1")

	// assert
	require.NoError(t, err)
	assert.True(t, allowed.Allowed)
}

func Test_FixedWindowLimiter_SetsTheWindowAsExpiry(t *testing.T) {
	// arrange
	ctx := context.Background()
	limiter, server, _ := givenLimiter(t, 5, 30*time.Second)

	// act
	_, err := limiter.Allow(ctx, "user-1")

	// assert
	require.NoError(t, err)
	keys := server.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "test:ratelimit:user-1:0", keys[0])
	assert.Equal(t, 30*time.Second, server.TTL(keys[0]))
}

func Test_FixedWindowLimiter_FailsClosed_WhenRedisIsDown(t *testing.T) {
	// arrange
	limiter, server, _ := givenLimiter(t, 1, time.Second)
	server.Close()

	// act
	decision, err := limiter.Allow(context.Background(), "user-1")

	// assert
	assert.ErrorIs(t, err, ratelimit.ErrRedisFailed)
	assert.False(t, decision.Allowed)
}

func Test_NewFixedWindowLimiter_ValidatesItsArguments(t *testing.T) {
	// arrange
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { _ = client.Close() })

	// act
	_, zeroLimitErr := ratelimit.NewFixedWindowLimiter(client, "", 0, time.Minute)
	_, zeroWindowErr := ratelimit.NewFixedWindowLimiter(client, "", 1, 0)
	_, nilClientErr := ratelimit.NewFixedWindowLimiter(nil, "", 1, time.Minute)
	_, noAddrErr := ratelimit.NewRedisFixedWindowLimiter(" ", "", "", 1, time.Minute)

	// assert
	assert.ErrorIs(t, zeroLimitErr, ratelimit.ErrInvalidLimit)
	assert.ErrorIs(t, zeroWindowErr, ratelimit.ErrInvalidLimit)
	assert.ErrorIs(t, nilClientErr, ratelimit.ErrNilRedisClient)
	assert.ErrorIs(t, noAddrErr, ratelimit.ErrMissingRedisAddr)
}
