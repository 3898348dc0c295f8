package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbridge/internal/audit"
	id "healthbridge/pkg/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestAppend(t *testing.T) {
	db, mock := setupMockDB(t)
	store := New(db)

	entry := audit.Entry{
		ID:        id.NewAuditEntryID(),
		ActorRole: id.RoleDoctor,
		ActorID:   uuid.NewString(),
		Action:    audit.ActionRequestAccess,
		TargetID:  uuid.NewString(),
		Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		RequestID: "req-1",
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_entries")).
		WithArgs(uuid.UUID(entry.ID), "DOCTOR", entry.ActorID, "REQUEST_ACCESS",
			sql.NullString{String: entry.TargetID, Valid: true}, entry.Timestamp, "req-1", "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Append(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_PropagatesError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec("INSERT INTO audit_entries").WillReturnError(errors.New("disk full"))

	err := New(db).Append(context.Background(), audit.Entry{ID: id.NewAuditEntryID()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestListByTarget(t *testing.T) {
	db, mock := setupMockDB(t)
	target := uuid.NewString()
	entryID := uuid.New()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "actor_role", "actor_id", "action", "target_id", "occurred_at", "request_id", "client_ip", "device",
	}).AddRow(entryID.String(), "DOCTOR", "doc-1", "VIEW_PATIENT", target, at, "req-9", "10.0.0.1", "Firefox on Linux")

	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_entries")).WithArgs(target).WillReturnRows(rows)

	entries, err := New(db).ListByTarget(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id.AuditEntryID(entryID), entries[0].ID)
	assert.Equal(t, audit.ActionViewPatient, entries[0].Action)
	assert.Equal(t, id.RoleDoctor, entries[0].ActorRole)
	assert.Equal(t, "Firefox on Linux", entries[0].Device)
	assert.NoError(t, mock.ExpectationsWereMet())
}
