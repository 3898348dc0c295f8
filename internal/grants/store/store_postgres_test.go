package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"

	"healthbridge/internal/grants/models"
	"healthbridge/internal/sentinel"
	"healthbridge/pkg/testutil"
)

type PostgresStoreSuite struct {
	suite.Suite
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.db, s.mock = db, mock
	s.store = NewPostgres(db)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	_ = s.db.Close()
}

func standardRow(g *models.StandardGrant) *sqlmock.Rows {
	var approvedAt any
	if g.ApprovedAt != nil {
		approvedAt = *g.ApprovedAt
	}
	return sqlmock.NewRows([]string{"id", "doctor_id", "patient_id", "hospital_id", "status", "created_at", "approved_at", "expires_at", "revoked_at"}).
		AddRow(g.ID.String(), g.DoctorID.String(), g.PatientID.String(), g.HospitalID.String(), string(g.Status), g.CreatedAt, approvedAt, g.ExpiresAt, nil)
}

func (s *PostgresStoreSuite) TestCreate_UnknownHospitalIsUnknownReference() {
	standard := testutil.NewStandardGrantBuilder(t0).Build()
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO standard_grants")).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "standard_grants_hospital_id_fkey"})

	err := s.store.CreateStandard(s.ctx, standard)
	s.Require().ErrorIs(err, sentinel.ErrUnknownReference)
	s.Contains(err.Error(), "standard_grants_hospital_id_fkey")

	emergency := testutil.NewEmergencyGrantBuilder(t0).Build()
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO emergency_grants")).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "emergency_grants_hospital_id_fkey"})

	s.ErrorIs(s.store.CreateEmergency(s.ctx, emergency), sentinel.ErrUnknownReference)
}

func (s *PostgresStoreSuite) TestCreate_OtherErrorsStayInfrastructure() {
	g := testutil.NewStandardGrantBuilder(t0).Build()
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO standard_grants")).
		WillReturnError(&pgconn.PgError{Code: "57014"})

	err := s.store.CreateStandard(s.ctx, g)
	s.Require().Error(err)
	s.NotErrorIs(err, sentinel.ErrUnknownReference)
}

func (s *PostgresStoreSuite) TestCreateStandard() {
	g := testutil.NewStandardGrantBuilder(t0).Build()
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO standard_grants")).
		WithArgs(g.ID.String(), g.DoctorID.String(), g.PatientID.String(), g.HospitalID.String(), "PENDING", g.CreatedAt, nil, g.ExpiresAt, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.store.CreateStandard(s.ctx, g))
}

func (s *PostgresStoreSuite) TestFindStandardByID() {
	g := testutil.NewStandardGrantBuilder(t0).Approved().Build()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM standard_grants WHERE id = $1")).
		WithArgs(g.ID.String()).
		WillReturnRows(standardRow(g))

	got, err := s.store.FindStandardByID(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(g.ID, got.ID)
	s.Equal(models.StandardApproved, got.Status)
	s.Require().NotNil(got.ApprovedAt)
	s.Nil(got.RevokedAt)
}

func (s *PostgresStoreSuite) TestFindStandardNotFound() {
	g := testutil.NewStandardGrantBuilder(t0).Build()
	s.mock.ExpectQuery("FROM standard_grants").WillReturnError(sql.ErrNoRows)

	_, err := s.store.FindStandardByID(s.ctx, g.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateStandardIsConditional() {
	g := testutil.NewStandardGrantBuilder(t0).Build()
	g.Approve(t0.Add(10 * time.Minute))

	s.Run("one row updated", func() {
		s.mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = $5")).
			WithArgs(g.ID.String(), "APPROVED", *g.ApprovedAt, nil, "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))
		s.NoError(s.store.UpdateStandard(s.ctx, g, models.StandardPending))
	})

	s.Run("no rows means another writer won", func() {
		s.mock.ExpectExec("UPDATE standard_grants").
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.ErrorIs(s.store.UpdateStandard(s.ctx, g, models.StandardPending), sentinel.ErrConflict)
	})
}

func (s *PostgresStoreSuite) TestFindActiveStandardFiltersLive() {
	g := testutil.NewStandardGrantBuilder(t0).Approved().Build()
	now := t0.Add(30 * time.Minute)
	s.mock.ExpectQuery(regexp.QuoteMeta("status = 'APPROVED' AND expires_at > $3")).
		WithArgs(g.DoctorID.String(), g.PatientID.String(), now).
		WillReturnRows(standardRow(g))

	got, err := s.store.FindActiveStandard(s.ctx, g.DoctorID, g.PatientID, now)
	s.Require().NoError(err)
	s.Equal(g.ID, got.ID)
}

func (s *PostgresStoreSuite) TestListStandardByPatient() {
	a := testutil.NewStandardGrantBuilder(t0.Add(time.Minute)).Build()
	b := testutil.NewStandardGrantBuilder(t0).Approved().Build()
	rows := standardRow(a)
	rows.AddRow(b.ID.String(), b.DoctorID.String(), b.PatientID.String(), b.HospitalID.String(), "APPROVED", b.CreatedAt, *b.ApprovedAt, b.ExpiresAt, nil)
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE patient_id = $1")).
		WithArgs(testutil.TestIDs.Patient1.String()).
		WillReturnRows(rows)

	got, err := s.store.ListStandardByPatient(s.ctx, testutil.TestIDs.Patient1)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(a.ID, got[0].ID)
}

func (s *PostgresStoreSuite) TestExpireStandardReturnsCount() {
	now := t0.Add(2 * time.Hour)
	s.mock.ExpectExec(regexp.QuoteMeta("WHERE status = 'APPROVED' AND expires_at <= $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.store.ExpireStandard(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(3), n)
}

func (s *PostgresStoreSuite) TestExpireEmergencyError() {
	s.mock.ExpectExec("UPDATE emergency_grants").WillReturnError(errors.New("connection reset"))

	_, err := s.store.ExpireEmergency(s.ctx, t0)
	s.Require().Error(err)
	s.Contains(err.Error(), "expire grants")
}

func (s *PostgresStoreSuite) TestEmergencyRoundTrip() {
	g := testutil.NewEmergencyGrantBuilder(t0).Build()
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO emergency_grants")).
		WithArgs(g.ID.String(), g.DoctorID.String(), g.PatientID.String(), g.HospitalID.String(), g.Reason, "ACTIVE", g.StartedAt, g.ExpiresAt, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.Require().NoError(s.store.CreateEmergency(s.ctx, g))

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM emergency_grants WHERE id = $1")).
		WithArgs(g.ID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "patient_id", "hospital_id", "reason", "status", "started_at", "expires_at", "revoked_at"}).
			AddRow(g.ID.String(), g.DoctorID.String(), g.PatientID.String(), g.HospitalID.String(), g.Reason, "ACTIVE", g.StartedAt, g.ExpiresAt, nil))

	got, err := s.store.FindEmergencyByID(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(g.HospitalID, got.HospitalID)
	s.Equal("unconscious, ER", got.Reason)
	s.True(got.IsLive(t0.Add(time.Hour)))
}
