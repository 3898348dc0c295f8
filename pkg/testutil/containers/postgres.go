//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"healthbridge/internal/platform/database"
	"healthbridge/migrations"
	"healthbridge/pkg/testutil"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("healthbridge_test"),
		postgres.WithUsername("healthbridge"),
		postgres.WithPassword("healthbridge_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := database.Migrate(ctx, db, migrations.FS, nil); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Shared through Manager; Ryuk reaps it when the test binary exits.
	return pc
}

// TruncateTables empties the named tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateModuleTables clears grant, audit and directory tables.
// CASCADE handles the foreign keys from grants to the directory.
func (p *PostgresContainer) TruncateModuleTables(ctx context.Context) error {
	return p.TruncateTables(ctx,
		"audit_entries",
		"emergency_grants",
		"standard_grants",
		"patients",
		"doctors",
		"hospitals",
	)
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// SeedDirectory inserts the fixed hospitals, doctors and patients from testutil.TestIDs.
func (p *PostgresContainer) SeedDirectory(ctx context.Context, t testing.TB) {
	t.Helper()
	ids := testutil.TestIDs
	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO hospitals (id, hospital_uid, name) VALUES ($1, 'HSP-TEST01', 'Test Hospital One')`, []any{uuid.UUID(ids.Hospital1)}},
		{`INSERT INTO hospitals (id, hospital_uid, name) VALUES ($1, 'HSP-TEST02', 'Test Hospital Two')`, []any{uuid.UUID(ids.Hospital2)}},
		{`INSERT INTO doctors (id, doctor_uid, name, hospital_id) VALUES ($1, 'DOC-TEST001', 'Dr. One', $2)`, []any{uuid.UUID(ids.Doctor1), uuid.UUID(ids.Hospital1)}},
		{`INSERT INTO doctors (id, doctor_uid, name, hospital_id) VALUES ($1, 'DOC-TEST002', 'Dr. Two', $2)`, []any{uuid.UUID(ids.Doctor2), uuid.UUID(ids.Hospital2)}},
	}
	for _, patient := range testutil.Patients() {
		stmts = append(stmts, struct {
			query string
			args  []any
		}{`INSERT INTO patients (id, health_uid, name) VALUES ($1, $2, $3)`, []any{uuid.UUID(patient.ID), patient.HealthUID, patient.Name}})
	}
	for _, stmt := range stmts {
		if _, err := p.Exec(ctx, stmt.query, stmt.args...); err != nil {
			t.Fatalf("SeedDirectory: %v", err)
		}
	}
}
