//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mandatemap/internal/ratelimit"
	"mandatemap/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	store *ratelimit.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	rc := containers.NewRedisContainer(s.T())
	s.store = ratelimit.NewRedisStore(rc.Client)
}

func (s *RedisStoreSuite) TestAllowsUpToLimitThenBlocks() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := s.store.Allow(ctx, "export:10.0.0.1", 3, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed, "request %d", i)
		s.Equal(3, result.Limit)
		s.Equal(2-i, result.Remaining)
	}

	result, err := s.store.Allow(ctx, "export:10.0.0.1", 3, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Zero(result.Remaining)
	s.WithinDuration(time.Now().Add(time.Minute), result.ResetAt, 5*time.Second)
}

func (s *RedisStoreSuite) TestKeysHaveIndependentBudgets() {
	ctx := context.Background()

	result, err := s.store.Allow(ctx, "refresh:10.0.0.2", 1, time.Minute)
	s.Require().NoError(err)
	s.True(result.Allowed)

	result, err = s.store.Allow(ctx, "refresh:10.0.0.2", 1, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)

	result, err = s.store.Allow(ctx, "refresh:10.0.0.3", 1, time.Minute)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()

	result, err := s.store.Allow(ctx, "resolve:10.0.0.4", 1, 500*time.Millisecond)
	s.Require().NoError(err)
	s.True(result.Allowed)

	result, err = s.store.Allow(ctx, "resolve:10.0.0.4", 1, 500*time.Millisecond)
	s.Require().NoError(err)
	s.False(result.Allowed)

	time.Sleep(700 * time.Millisecond)

	result, err = s.store.Allow(ctx, "resolve:10.0.0.4", 1, 500*time.Millisecond)
	s.Require().NoError(err)
	s.True(result.Allowed)
}
