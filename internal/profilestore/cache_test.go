package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

// countingReader counts reads that reach the backing store.
type countingReader struct {
	ProfileReader
	calls int
}

func (c *countingReader) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	c.calls++
	return c.ProfileReader.GetProfile(ctx, id)
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedReader_MissThenHit(t *testing.T) {
	mr, rdb := setupRedis(t)
	backing := &countingReader{ProfileReader: NewMemoryStore(&models.Profile{ID: "m1", IsMentor: true, County: "Kent"})}
	cache := NewCachedReader(backing, rdb, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	p, err := cache.GetProfile(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Kent", p.County)
	assert.True(t, mr.Exists("mentor-matching:profile:m1"))
	assert.Equal(t, time.Minute, mr.TTL("mentor-matching:profile:m1"))

	p, err = cache.GetProfile(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Kent", p.County)
	assert.Equal(t, 1, backing.calls)

	require.NoError(t, cache.Invalidate(ctx, "m1"))
	assert.False(t, mr.Exists("mentor-matching:profile:m1"))
	_, err = cache.GetProfile(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}

func TestCachedReader_EditVisibleAfterTTL(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewMemoryStore(&models.Profile{ID: "m1", IsMentor: true, County: "Kent"})
	cache := NewCachedReader(store, rdb, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := cache.GetProfile(ctx, "m1")
	require.NoError(t, err)
	store.Put(&models.Profile{ID: "m1", IsMentor: true, County: "Surrey"})

	p, err := cache.GetProfile(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Kent", p.County, "stale until the entry expires")

	mr.FastForward(time.Minute)
	p, err = cache.GetProfile(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Surrey", p.County)
}

func TestCachedReader_NotFoundIsNotCached(t *testing.T) {
	mr, rdb := setupRedis(t)
	cache := NewCachedReader(NewMemoryStore(), rdb, time.Minute, logger.NewTestLogger(t))

	_, err := cache.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, matching.ErrProfileNotFound)
	assert.False(t, mr.Exists("mentor-matching:profile:ghost"))
}

func TestCachedReader_CorruptEntryFallsThrough(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set("mentor-matching:profile:m1", "{not json"))
	backing := &countingReader{ProfileReader: NewMemoryStore(&models.Profile{ID: "m1", IsMentor: true})}
	cache := NewCachedReader(backing, rdb, time.Minute, logger.NewTestLogger(t))

	p, err := cache.GetProfile(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", p.ID)
	assert.Equal(t, 1, backing.calls)
}

func TestCachedReader_RedisErrorsDoNotFailReads(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	profile := &models.Profile{ID: "m1", IsMentor: true}
	data, err := json.Marshal(profile)
	require.NoError(t, err)

	mock.ExpectGet("mentor-matching:profile:m1").SetErr(errors.New("LOADING"))
	mock.ExpectSet("mentor-matching:profile:m1", data, 30*time.Second).SetErr(errors.New("READONLY"))

	cache := NewCachedReader(NewMemoryStore(profile), rdb, 30*time.Second, logger.NewTestLogger(t))
	p, err := cache.GetProfile(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
