package localmodel

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rcliao/record-and-post/internal/logging"
	"github.com/rcliao/record-and-post/internal/model"
)

var (
	ErrUnknownModel = errors.New("unknown model")
	ErrNotReady     = errors.New("model is not downloaded")
)

// DefaultTick is the interval between simulated download progress steps.
const DefaultTick = 500 * time.Millisecond

// maxStep bounds the random progress added per tick.
const maxStep = 15.0

// Store persists the catalog snapshot.
type Store interface {
	GetModels(ctx context.Context) ([]model.LocalModel, error)
	PutModels(ctx context.Context, models []model.LocalModel) error
}

// Selection reads and updates which local model the user has chosen.
type Selection interface {
	Settings() model.Settings
	UpdateSettings(ctx context.Context, fn func(*model.Settings)) error
}

type Options struct {
	Clock  clockwork.Clock
	Tick   time.Duration
	Logger logging.Logger
	// Step returns the progress added per tick, in [0, 15).
	Step func() float64
}

// Registry tracks model status and runs simulated downloads.
type Registry struct {
	store Store
	sel   Selection
	clock clockwork.Clock
	tick  time.Duration
	step  func() float64
	log   logging.Logger

	mu        sync.Mutex
	models    []model.LocalModel
	downloads map[string]*download
	wg        sync.WaitGroup
}

// download is one running simulated download.
type download struct {
	done   chan struct{}
	cancel context.CancelFunc
}

// NewRegistry loads the persisted snapshot, falling back to the catalog.
// Entries left mid-download by an earlier process are reset to available.
func NewRegistry(ctx context.Context, store Store, sel Selection, opts Options) (*Registry, error) {
	r := &Registry{
		store:     store,
		sel:       sel,
		clock:     opts.Clock,
		tick:      opts.Tick,
		step:      opts.Step,
		log:       opts.Logger,
		downloads: make(map[string]*download),
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.tick <= 0 {
		r.tick = DefaultTick
	}
	if r.step == nil {
		r.step = func() float64 { return rand.Float64() * maxStep }
	}
	if r.log == nil {
		r.log = logging.Nop()
	}

	models, err := store.GetModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	if len(models) == 0 {
		models = Catalog()
	}
	for i := range models {
		if models[i].Status == model.ModelDownloading {
			models[i].Status = model.ModelAvailable
			models[i].Progress = 0
		}
	}
	r.models = models
	return r, nil
}

// List returns a copy of the current model states.
func (r *Registry) List() []model.LocalModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.LocalModel(nil), r.models...)
}

// Get returns one model by id.
func (r *Registry) Get(id string) (model.LocalModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.LocalModel{}, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	return r.models[i], nil
}

// Download starts a simulated download driven by the registry clock. The
// returned channel closes when the download ends. Calling it again while the
// download runs returns the same channel; for a ready model it returns a
// closed channel.
func (r *Registry) Download(ctx context.Context, id string) (<-chan struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	if d, ok := r.downloads[id]; ok {
		return d.done, nil
	}
	if r.models[i].Status == model.ModelReady {
		done := make(chan struct{})
		close(done)
		return done, nil
	}

	r.models[i].Status = model.ModelDownloading
	r.models[i].Progress = 0

	runCtx, cancel := context.WithCancel(ctx)
	d := &download{done: make(chan struct{}), cancel: cancel}
	r.downloads[id] = d
	r.wg.Add(1)
	go r.run(runCtx, id, d)

	r.log.Info(ctx, "model download started", "model", id)
	return d.done, nil
}

func (r *Registry) run(ctx context.Context, id string, d *download) {
	defer r.wg.Done()
	defer close(d.done)
	defer d.cancel()

	ticker := r.clock.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			if r.downloads[id] == d {
				delete(r.downloads, id)
				if i := r.indexOf(id); i >= 0 && r.models[i].Status == model.ModelDownloading {
					r.models[i].Status = model.ModelAvailable
					r.models[i].Progress = 0
				}
			}
			r.mu.Unlock()
			return
		case <-ticker.Chan():
			// A delete or a newer download took over this model.
			if !r.owns(id, d) {
				return
			}
			if r.Tick(ctx, id) {
				return
			}
		}
	}
}

// Tick advances a downloading model by one random step and reports whether
// its download is over, either completed or no longer downloading. On
// completion the whole list is persisted.
func (r *Registry) Tick(ctx context.Context, id string) bool {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 || r.models[i].Status != model.ModelDownloading {
		r.mu.Unlock()
		return true
	}

	m := &r.models[i]
	progress := m.Progress + r.step()
	if progress < 100 {
		m.Progress = progress
		r.mu.Unlock()
		return false
	}

	m.Progress = 100
	m.Status = model.ModelReady
	delete(r.downloads, id)
	snapshot := append([]model.LocalModel(nil), r.models...)
	r.mu.Unlock()

	if err := r.store.PutModels(ctx, snapshot); err != nil {
		r.log.Error(ctx, "persist models", "error", err)
	}
	r.log.Info(ctx, "model ready", "model", id)
	return true
}

// Delete resets a model to available, persists the list and clears the
// selection when the model was selected. A running download is cancelled.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	r.models[i].Status = model.ModelAvailable
	r.models[i].Progress = 0
	if d, ok := r.downloads[id]; ok {
		d.cancel()
		delete(r.downloads, id)
	}
	snapshot := append([]model.LocalModel(nil), r.models...)
	r.mu.Unlock()

	if err := r.store.PutModels(ctx, snapshot); err != nil {
		return fmt.Errorf("persist models: %w", err)
	}

	if r.sel != nil && r.sel.Settings().LocalModelID == id {
		if err := r.sel.UpdateSettings(ctx, func(s *model.Settings) { s.LocalModelID = "" }); err != nil {
			return fmt.Errorf("clear selection: %w", err)
		}
	}
	return nil
}

// Select makes a ready model the chosen local model.
func (r *Registry) Select(ctx context.Context, id string) error {
	m, err := r.Get(id)
	if err != nil {
		return err
	}
	if m.Status != model.ModelReady {
		return fmt.Errorf("%w: %s", ErrNotReady, id)
	}
	return r.sel.UpdateSettings(ctx, func(s *model.Settings) { s.LocalModelID = id })
}

// Wait blocks until every running download goroutine has exited.
func (r *Registry) Wait() {
	r.wg.Wait()
}

func (r *Registry) owns(id string, d *download) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.downloads[id] == d
}

func (r *Registry) indexOf(id string) int {
	for i := range r.models {
		if r.models[i].ID == id {
			return i
		}
	}
	return -1
}
