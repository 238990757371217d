//go:build integration

package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	passmodels "gopass/internal/pass/models"
	"gopass/pkg/requestcontext"
	"gopass/pkg/testutil/containers"
)

// =============================================================================
// Reporting Cache Integration Suite
// =============================================================================
// Runs the snapshot cache against real Redis: hits, the version-counter
// invalidation, and TTL-bounded staleness semantics.

type ReportingCacheSuite struct {
	suite.Suite
	redis       *containers.RedisContainer
	passes      *stubPassCounter
	validations *stubValidationCounter
	service     *Service
	ctx         context.Context
}

func TestReportingCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ReportingCacheSuite))
}

func (s *ReportingCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *ReportingCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))

	s.passes = &stubPassCounter{counts: map[passmodels.Status]int{
		passmodels.StatusValid: 5,
	}}
	s.validations = &stubValidationCounter{count: 2}

	var err error
	s.service, err = New(s.passes, s.validations, s.redis.Client, time.Minute, nil)
	s.Require().NoError(err)

	s.ctx = requestcontext.WithTime(context.Background(),
		time.Date(2026, 3, 14, 15, 45, 0, 0, time.UTC))
}

func (s *ReportingCacheSuite) TestSnapshotServesFromCache() {
	first, err := s.service.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, first.ActivePasses)

	// Store changes are invisible until the cache is invalidated or expires.
	s.passes.counts[passmodels.StatusValid] = 99

	second, err := s.service.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, second.ActivePasses)
}

func (s *ReportingCacheSuite) TestInvalidateForcesRecompute() {
	first, err := s.service.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, first.ActivePasses)

	s.passes.counts[passmodels.StatusValid] = 99
	s.service.Invalidate(s.ctx)

	second, err := s.service.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(99, second.ActivePasses)
}

func (s *ReportingCacheSuite) TestColdCacheComputes() {
	stats, err := s.service.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, stats.TotalPasses)
	s.Equal(2, stats.TodayValidations)
}
