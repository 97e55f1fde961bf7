package store

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string `json:"db_path"`
	DBSizeBytes  int64  `json:"db_size_bytes"`
	DBSize       string `json:"db_size"`
	Sessions     int    `json:"sessions"`
	WithArticle  int    `json:"with_article"`
	WithImage    int    `json:"with_image"`
	TotalSeconds int    `json:"total_seconds"`
	AudioBytes   int64  `json:"audio_bytes"`
	AudioSize    string `json:"audio_size"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}
	st.DBSize = humanize.Bytes(uint64(st.DBSizeBytes))

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(NULLIF(article, '')),
		       COUNT(NULLIF(image_url, '')),
		       COALESCE(SUM(duration_seconds), 0),
		       COALESCE(SUM(LENGTH(audio)), 0)
		FROM sessions`).Scan(&st.Sessions, &st.WithArticle, &st.WithImage, &st.TotalSeconds, &st.AudioBytes)
	if err != nil {
		return st, fmt.Errorf("%w: stats: %w", ErrStorage, err)
	}
	st.AudioSize = humanize.Bytes(uint64(st.AudioBytes))

	return st, nil
}
