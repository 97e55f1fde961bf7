package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/rcliao/record-and-post/internal/model"
	"github.com/rcliao/record-and-post/internal/store/migrations"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db dir: %w", ErrStorage, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %w", ErrStorage, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", ErrStorage, err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var sessionColumns = []string{
	"id", "title", "created_at", "duration_seconds", "transcript",
	"audio", "audio_mime", "article", "image_url", "participants", "location",
}

func selectSessions(omitAudio bool) sq.SelectBuilder {
	cols := make([]string, len(sessionColumns))
	copy(cols, sessionColumns)
	if omitAudio {
		cols[5] = "NULL AS audio"
	}
	return sq.Select(cols...).From("sessions")
}

func (s *SQLiteStore) Put(ctx context.Context, sess *model.Session) error {
	return putSession(ctx, s.db, sess)
}

func putSession(ctx context.Context, db execer, sess *model.Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("%w: session id is required", ErrStorage)
	}

	participants := sess.Participants
	if participants == nil {
		participants = []string{}
	}
	pJSON, err := json.Marshal(participants)
	if err != nil {
		return fmt.Errorf("%w: encode participants: %w", ErrStorage, err)
	}

	var audio any
	if len(sess.Audio) > 0 {
		audio = sess.Audio
	}

	// ON CONFLICT keeps the original rowid, which List relies on for ordering.
	_, err = db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, created_at, duration_seconds, transcript,
		                      audio, audio_mime, article, image_url, participants, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			created_at = excluded.created_at,
			duration_seconds = excluded.duration_seconds,
			transcript = excluded.transcript,
			audio = excluded.audio,
			audio_mime = excluded.audio_mime,
			article = excluded.article,
			image_url = excluded.image_url,
			participants = excluded.participants,
			location = excluded.location`,
		sess.ID, sess.Title, sess.CreatedAt.UTC().Format(time.RFC3339Nano), sess.DurationSeconds,
		sess.Transcript, audio, nullString(sess.AudioMIME), nullString(sess.Article),
		nullString(sess.ImageURL), string(pJSON), nullString(sess.Location))
	if err != nil {
		return fmt.Errorf("%w: put session %s: %w", ErrStorage, sess.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Session, error) {
	query, args, err := selectSessions(false).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %w", ErrStorage, err)
	}

	sess, err := scanSession(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session %s: %w", ErrStorage, id, err)
	}
	return &sess, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Session, error) {
	b := selectSessions(p.OmitAudio).OrderBy("rowid DESC")
	if p.Limit > 0 {
		b = b.Limit(uint64(p.Limit))
	}
	return s.querySessions(ctx, b)
}

func (s *SQLiteStore) querySessions(ctx context.Context, b sq.SelectBuilder) ([]model.Session, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %w", ErrStorage, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query sessions: %w", ErrStorage, err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan session: %w", ErrStorage, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate sessions: %w", ErrStorage, err)
	}
	return sessions, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete session %s: %w", ErrStorage, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete session %s: %w", ErrStorage, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (model.Session, error) {
	var m model.Session
	var audioMIME, article, imageURL, location sql.NullString
	var createdAt, participants string
	var audio []byte

	err := row.Scan(
		&m.ID, &m.Title, &createdAt, &m.DurationSeconds, &m.Transcript,
		&audio, &audioMIME, &article, &imageURL, &participants, &location,
	)
	if err != nil {
		return m, err
	}

	m.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return m, fmt.Errorf("decode created_at: %w", err)
	}
	if len(audio) > 0 {
		m.Audio = audio
	}
	m.AudioMIME = audioMIME.String
	m.Article = article.String
	m.ImageURL = imageURL.String
	m.Location = location.String
	if err := json.Unmarshal([]byte(participants), &m.Participants); err != nil {
		return m, fmt.Errorf("decode participants: %w", err)
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}

	return m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
