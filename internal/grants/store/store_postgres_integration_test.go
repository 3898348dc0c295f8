//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"healthbridge/internal/grants/models"
	"healthbridge/internal/grants/store"
	"healthbridge/internal/sentinel"
	"healthbridge/pkg/testutil"
	"healthbridge/pkg/testutil/containers"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateModuleTables(ctx))
	s.postgres.SeedDirectory(ctx, s.T())
}

func (s *PostgresIntegrationSuite) TestRacingTransitionsApplyOnce() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	g := testutil.NewStandardGrantBuilder(now).Build()
	s.Require().NoError(s.store.CreateStandard(ctx, g))

	result := testutil.RunConcurrent(10, func(idx int) error {
		next := *g
		if idx%2 == 0 {
			next.Approve(now.Add(time.Second))
		} else {
			next.Revoke(now.Add(time.Second))
		}
		return s.store.UpdateStandard(ctx, &next, models.StandardPending)
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts)
}

func (s *PostgresIntegrationSuite) TestSweepAndLiveLookup() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	expired := testutil.NewStandardGrantBuilder(now.Add(-2 * time.Hour)).Approved().Build()
	live := testutil.NewStandardGrantBuilder(now.Add(-10 * time.Minute)).
		WithPatient(testutil.TestIDs.Patient2).Approved().Build()
	stalePending := testutil.NewStandardGrantBuilder(now.Add(-3 * time.Hour)).Build()
	for _, g := range []*models.StandardGrant{expired, live, stalePending} {
		s.Require().NoError(s.store.CreateStandard(ctx, g))
	}
	emergency := testutil.NewEmergencyGrantBuilder(now.Add(-25 * time.Hour)).Build()
	s.Require().NoError(s.store.CreateEmergency(ctx, emergency))

	_, err := s.store.FindActiveStandard(ctx, expired.DoctorID, expired.PatientID, now)
	s.ErrorIs(err, sentinel.ErrNotFound, "live comparison denies before any sweep")

	n, err := s.store.ExpireStandard(ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	n, err = s.store.ExpireEmergency(ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.store.ExpireStandard(ctx, now)
	s.Require().NoError(err)
	s.Zero(n, "second sweep writes nothing")

	pending, err := s.store.FindStandardByID(ctx, stalePending.ID)
	s.Require().NoError(err)
	s.Equal(models.StandardPending, pending.Status)

	active, err := s.store.ListActiveStandardByHospital(ctx, testutil.TestIDs.Hospital1, now)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(live.ID, active[0].ID)
}
