//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/cache"
	"ptacheck/internal/verification/models"
	"ptacheck/pkg/platform/sentinel"
	"ptacheck/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client, 5*time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTripDropsSnapshot() {
	ctx := context.Background()
	v := models.Verdict{
		IMEI:       imei.Must("355123456789019"),
		Status:     models.StatusNonCompliant,
		Details:    &models.Details{RawText: "non-compliant", Snapshot: "aGVsbG8="},
		VerifiedAt: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.cache.Put(ctx, v))

	got, err := s.cache.Get(ctx, v.IMEI)
	s.Require().NoError(err)
	s.Equal(v.Status, got.Status)
	s.True(v.VerifiedAt.Equal(got.VerifiedAt))
	s.Equal("non-compliant", got.Details.RawText)
	s.Empty(got.Details.Snapshot)
	s.Equal("aGVsbG8=", v.Details.Snapshot, "caller's verdict is not mutated")

	keys, err := s.redis.Keys(ctx, "ptacheck:verdict:*")
	s.Require().NoError(err)
	s.Equal([]string{"ptacheck:verdict:355123456789019"}, keys)
}

func (s *RedisCacheSuite) TestMiss() {
	_, err := s.cache.Get(context.Background(), imei.Must("359871977331199"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestTTLIsApplied() {
	ctx := context.Background()
	v := models.Verdict{IMEI: imei.Must("359871977331199"), Status: models.StatusCompliant, VerifiedAt: time.Now()}
	s.Require().NoError(s.cache.Put(ctx, v))

	ttl, err := s.redis.Client.TTL(ctx, "ptacheck:verdict:359871977331199").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 4*time.Minute)
}
