// Package workspace owns the application state: the current session, the
// settings and the operations that enrich a session with generated content.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"

	"github.com/rcliao/record-and-post/internal/article"
	"github.com/rcliao/record-and-post/internal/genai"
	"github.com/rcliao/record-and-post/internal/logging"
	"github.com/rcliao/record-and-post/internal/model"
	"github.com/rcliao/record-and-post/internal/recorder"
)

var (
	// ErrNoSession is returned when an operation needs a session and none is selected.
	ErrNoSession = errors.New("no session selected")
	// ErrRegenerationInFlight is returned when an article or image is already
	// being generated for the same session.
	ErrRegenerationInFlight = errors.New("generation already in progress")
	// ErrNoImage is returned when the provider produced no image.
	ErrNoImage = errors.New("no image generated")
)

const (
	articleOverviewChars = 100
	imageOverviewChars   = 50
)

// Store is the persistence the workspace needs.
type Store interface {
	Put(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (model.Settings, error)
	PutSettings(ctx context.Context, s model.Settings) error
}

type Options struct {
	Clock  clockwork.Clock
	Logger logging.Logger
	// Entropy feeds ULID generation. Defaults to a time-seeded source.
	Entropy io.Reader
}

// Workspace is the single owner of mutable application state.
type Workspace struct {
	store   Store
	gateway *genai.Gateway
	clock   clockwork.Clock
	log     logging.Logger

	mu       sync.Mutex
	entropy  io.Reader
	settings model.Settings
	current  *model.Session
	inflight map[string]struct{}
}

func New(store Store, gateway *genai.Gateway, opts Options) *Workspace {
	w := &Workspace{
		store:    store,
		gateway:  gateway,
		clock:    opts.Clock,
		log:      opts.Logger,
		entropy:  opts.Entropy,
		settings: model.DefaultSettings(),
		inflight: make(map[string]struct{}),
	}
	if w.clock == nil {
		w.clock = clockwork.NewRealClock()
	}
	if w.log == nil {
		w.log = logging.Nop()
	}
	if w.entropy == nil {
		w.entropy = rand.New(rand.NewSource(w.clock.Now().UnixNano()))
	}
	return w
}

// Open loads the saved settings, falling back to defaults.
func (w *Workspace) Open(ctx context.Context) error {
	settings, err := w.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	w.mu.Lock()
	w.settings = settings
	w.mu.Unlock()
	return nil
}

// Settings returns the current settings.
func (w *Workspace) Settings() model.Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// UpdateSettings applies fn to a copy of the settings and persists it. The
// in-memory settings change only when the write succeeds.
func (w *Workspace) UpdateSettings(ctx context.Context, fn func(*model.Settings)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.settings
	fn(&next)
	if err := w.store.PutSettings(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	w.settings = next
	return nil
}

func (w *Workspace) newID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(w.clock.Now()), w.entropy).String()
}

// FinishRecording turns a finished capture into a new persisted session and
// makes it current.
func (w *Workspace) FinishRecording(ctx context.Context, c *recorder.Capture) (*model.Session, error) {
	finished := c.FinishedAt
	if finished.IsZero() {
		finished = w.clock.Now()
	}

	transcript := strings.TrimSpace(c.Transcript)
	if transcript == "" {
		transcript = model.EmptyTranscript
	}

	sess := &model.Session{
		ID:              w.newID(),
		Title:           model.DefaultTitle(finished),
		CreatedAt:       finished.UTC(),
		DurationSeconds: c.DurationSeconds,
		Transcript:      transcript,
		Audio:           c.Audio,
		Participants:    []string{model.DefaultParticipant},
	}
	if len(c.Audio) > 0 {
		sess.AudioMIME = c.MIME
	}

	if err := w.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	w.setCurrent(sess)

	w.log.Info(ctx, "session saved", "session", sess.ID, "seconds", sess.DurationSeconds)
	return sess, nil
}

// SelectSession loads a session and makes it current.
func (w *Workspace) SelectSession(ctx context.Context, id string) (*model.Session, error) {
	sess, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	w.setCurrent(sess)
	return sess, nil
}

// Current returns a copy of the current session, or nil.
func (w *Workspace) Current() *model.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	cp := *w.current
	return &cp
}

func (w *Workspace) setCurrent(s *model.Session) {
	cp := *s
	w.mu.Lock()
	w.current = &cp
	w.mu.Unlock()
}

// refreshCurrent replaces the current session if it has the same id.
func (w *Workspace) refreshCurrent(s *model.Session) {
	cp := *s
	w.mu.Lock()
	if w.current != nil && w.current.ID == s.ID {
		w.current = &cp
	}
	w.mu.Unlock()
}

// resolve loads the session with id, or the current one when id is empty.
func (w *Workspace) resolve(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		cur := w.Current()
		if cur == nil {
			return nil, ErrNoSession
		}
		id = cur.ID
	}
	return w.store.Get(ctx, id)
}

// update loads a session, applies fn and persists the result.
func (w *Workspace) update(ctx context.Context, id string, fn func(*model.Session)) (*model.Session, error) {
	sess, err := w.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(sess)
	if err := w.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	w.refreshCurrent(sess)
	return sess, nil
}

// UpdateTranscript replaces the transcript text.
func (w *Workspace) UpdateTranscript(ctx context.Context, id, transcript string) (*model.Session, error) {
	return w.update(ctx, id, func(s *model.Session) { s.Transcript = transcript })
}

// UpdateArticle replaces the article markdown. An empty article removes it.
func (w *Workspace) UpdateArticle(ctx context.Context, id, markdown string) (*model.Session, error) {
	return w.update(ctx, id, func(s *model.Session) { s.Article = markdown })
}

// Metadata carries the editable descriptive fields of a session.
type Metadata struct {
	Title    string
	Location string
	// Participants is a comma-separated list.
	Participants string
}

// UpdateMetadata replaces title, location and participants.
func (w *Workspace) UpdateMetadata(ctx context.Context, id string, md Metadata) (*model.Session, error) {
	return w.update(ctx, id, func(s *model.Session) {
		s.Title = md.Title
		s.Location = md.Location
		s.Participants = model.ParseParticipants(md.Participants)
	})
}

// DeleteSession removes a session permanently and deselects it.
func (w *Workspace) DeleteSession(ctx context.Context, id string) error {
	if err := w.store.Delete(ctx, id); err != nil {
		return err
	}
	w.mu.Lock()
	if w.current != nil && w.current.ID == id {
		w.current = nil
	}
	w.mu.Unlock()
	return nil
}

// GenerateArticle drafts an article from the transcript, derives a header
// image and stores both. The three provider calls run in order; if any of
// them fails the stored session is left unchanged. Only the article and
// image are written, so edits made meanwhile are kept.
func (w *Workspace) GenerateArticle(ctx context.Context, id string, cfg model.ArticleConfig) (*model.Session, error) {
	sess, err := w.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	release, err := w.claim(sess.ID)
	if err != nil {
		return nil, err
	}
	defer release()
	log := w.log.With("session", sess.ID)
	modelID := w.Settings().Model

	res, err := w.gateway.GenerateArticle(ctx, modelID, sess.Transcript, cfg)
	if err != nil {
		return nil, generationErr(err)
	}

	title := res.Title
	if title == "" {
		title = "Session"
	}
	prompt, err := w.gateway.GenerateImagePrompt(ctx, title, prefix(res.Content, articleOverviewChars))
	if err != nil {
		return nil, generationErr(err)
	}

	imageURL, err := w.gateway.GenerateBlogImage(ctx, prompt)
	if err != nil {
		return nil, generationErr(err)
	}

	latest, err := w.store.Get(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	latest.Article = article.Assemble(*res)
	latest.ImageURL = imageURL
	if err := w.store.Put(ctx, latest); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	w.refreshCurrent(latest)

	log.Info(ctx, "article generated", "model", modelID, "image", imageURL != "")
	return latest, nil
}

// RegenerateImage replaces only the header image. Without a custom prompt
// one is derived from the title and the start of the article. Concurrent
// calls for the same session are rejected.
func (w *Workspace) RegenerateImage(ctx context.Context, id, customPrompt string) (*model.Session, error) {
	sess, err := w.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	release, err := w.claim(sess.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	prompt := strings.TrimSpace(customPrompt)
	if prompt == "" {
		overview := prefix(sess.Article, imageOverviewChars)
		if overview == "" {
			overview = "Session summary"
		}
		prompt, err = w.gateway.GenerateImagePrompt(ctx, sess.Title, overview)
		if err != nil {
			return nil, generationErr(err)
		}
	}

	imageURL, err := w.gateway.GenerateBlogImage(ctx, prompt)
	if err != nil {
		return nil, generationErr(err)
	}
	if imageURL == "" {
		return nil, ErrNoImage
	}

	// Reload so edits made while the image was generating are kept.
	latest, err := w.store.Get(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	latest.ImageURL = imageURL
	if err := w.store.Put(ctx, latest); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	w.refreshCurrent(latest)
	return latest, nil
}

// claim marks a session as generating. The returned func releases it.
func (w *Workspace) claim(id string) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[id]; busy {
		return nil, ErrRegenerationInFlight
	}
	w.inflight[id] = struct{}{}
	return func() {
		w.mu.Lock()
		delete(w.inflight, id)
		w.mu.Unlock()
	}, nil
}

func generationErr(err error) error {
	if errors.Is(err, genai.ErrGenerationFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", genai.ErrGenerationFailed, err)
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
