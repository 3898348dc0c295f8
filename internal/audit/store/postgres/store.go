package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"healthbridge/internal/audit"
	id "healthbridge/pkg/domain"
)

// Store implements audit.Store on the append-only audit_entries table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO audit_entries (
			id, actor_role, actor_id, action, target_id, occurred_at,
			request_id, client_ip, device
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		string(entry.ActorRole),
		entry.ActorID,
		string(entry.Action),
		nullString(entry.TargetID),
		entry.Timestamp,
		entry.RequestID,
		entry.ClientIP,
		entry.Device,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListByTarget(ctx context.Context, targetID string) ([]audit.Entry, error) {
	query := `
		SELECT id, actor_role, actor_id, action, target_id, occurred_at,
			   request_id, client_ip, device
		FROM audit_entries
		WHERE target_id = $1
		ORDER BY occurred_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry    audit.Entry
			entryID  uuid.UUID
			role     string
			action   string
			targetID sql.NullString
		)
		if err := rows.Scan(
			&entryID, &role, &entry.ActorID, &action, &targetID, &entry.Timestamp,
			&entry.RequestID, &entry.ClientIP, &entry.Device,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = id.AuditEntryID(entryID)
		entry.ActorRole = id.Role(role)
		entry.Action = audit.Action(action)
		entry.TargetID = targetID.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
