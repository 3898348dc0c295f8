package audit

import "context"

// Store persists audit entries. Implementations only ever insert.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// ListByTarget returns entries whose TargetID equals targetID, newest first.
	ListByTarget(ctx context.Context, targetID string) ([]Entry, error)
}
