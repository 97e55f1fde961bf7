package store

import (
	"context"
	"fmt"

	"github.com/rcliao/record-and-post/internal/model"
)

// ExportAll returns every session oldest-first, so that Import restores the
// same newest-first listing order.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Session, error) {
	return s.querySessions(ctx, selectSessions(false).OrderBy("rowid ASC"))
}

// Import upserts sessions from an export in a single transaction.
func (s *SQLiteStore) Import(ctx context.Context, sessions []model.Session) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin import: %w", ErrStorage, err)
	}
	defer tx.Rollback()

	for i := range sessions {
		if err := putSession(ctx, tx, &sessions[i]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit import: %w", ErrStorage, err)
	}
	return len(sessions), nil
}
