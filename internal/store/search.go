package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/rcliao/record-and-post/internal/model"
)

// Search finds sessions whose title, transcript or article match the query substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Session, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + p.Query + "%"
	b := selectSessions(p.OmitAudio).
		Where(sq.Or{
			sq.Like{"title": pattern},
			sq.Like{"transcript": pattern},
			sq.Like{"article": pattern},
		}).
		OrderBy("rowid DESC").
		Limit(uint64(limit))

	return s.querySessions(ctx, b)
}
