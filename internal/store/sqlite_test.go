package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/rcliao/record-and-post/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(id string) *model.Session {
	return &model.Session{
		ID:              id,
		Title:           "Session " + id,
		CreatedAt:       time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		DurationSeconds: 42,
		Transcript:      "hello world",
		Participants:    []string{"Me"},
	}
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := testSession("a")
	want.Audio = []byte{1, 2, 3}
	want.AudioMIME = "audio/webm"
	want.Article = "# Title"
	want.ImageURL = "data:image/png;base64,AAA="
	want.Location = "Lisbon"
	want.Participants = []string{"Me", "Ana"}

	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestPutOptionalFieldsAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Put(ctx, testSession("a")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Audio != nil || got.Article != "" || got.ImageURL != "" || got.Location != "" {
		t.Errorf("expected optional fields empty, got %+v", got)
	}
}

func TestPutRequiresID(t *testing.T) {
	s := newTestStore(t)
	err := s.Put(context.Background(), &model.Session{Title: "x"})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Put(ctx, testSession(id)); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	got, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := sessionIDs(got)
	if diff := cmp.Diff([]string{"c", "b", "a"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		s.Put(ctx, testSession(id))
	}

	updated := testSession("a")
	updated.Transcript = "edited"
	if err := s.Put(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(got))
	}
	if diff := cmp.Diff([]string{"c", "b", "a"}, sessionIDs(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got[2].Transcript != "edited" {
		t.Errorf("expected updated transcript, got %q", got[2].Transcript)
	}
}

func TestListLimitAndOmitAudio(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		sess := testSession(id)
		sess.Audio = []byte("pcm")
		s.Put(ctx, sess)
	}

	got, err := s.List(ctx, ListParams{Limit: 2, OmitAudio: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	for _, sess := range got {
		if sess.Audio != nil {
			t.Errorf("expected audio omitted for %s", sess.ID)
		}
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, testSession("a"))
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestClosedStoreReportsStorageError(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	_, err := s.List(context.Background(), ListParams{})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestGetCorruptCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Put(ctx, testSession("a")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET created_at = 'yesterday' WHERE id = 'a'`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err := s.Get(ctx, "a")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s1.Put(ctx, testSession("a"))
	s1.Close()

	s2, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if _, err := s2.Get(ctx, "a"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func sessionIDs(sessions []model.Session) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}
