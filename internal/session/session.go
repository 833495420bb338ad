// Package session implements the edit session: the working set of source
// images, the shared adjustment settings and the realtime/finalize render
// protocol.
//
// Every render runs on its own goroutine against a snapshot of the settings
// taken when it was issued. Each issued render takes the next generation
// number for its image, and a finished render replaces the preview only if
// its generation is still the newest one issued for that image. A new drag
// also cancels the previous realtime render of the same image.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// Session is one edit session. It is safe for concurrent use.
type Session struct {
	id        string
	renderer  Renderer
	drafts    DraftStore
	logger    *clog.Logger
	workers   int
	onPreview PreviewHandler

	mu          sync.Mutex
	editing     bool
	sources     []Source
	lowRes      []image.Image
	previews    []Preview
	generations []uint64
	realtime    []inflight
	settings    adjust.Settings
	current     int
	tool        adjust.ID
	draftID     string

	realtimeRenders int
	finalizeRenders int

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New returns an idle session rendering through r.
func New(r Renderer, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	return &Session{
		id:        o.id,
		renderer:  r,
		drafts:    o.drafts,
		logger:    o.logger.With("session", o.id),
		workers:   o.workers,
		onPreview: o.onPreview,
		settings:  adjust.New(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Begin starts editing sources. seed, when non-nil, provides the initial
// settings; otherwise editing starts from identity settings.
func (s *Session) Begin(ctx context.Context, sources []Source, seed *adjust.Record) error {
	settings := adjust.New()
	if seed != nil {
		var err error
		if settings, err = adjust.FromRecord(*seed); err != nil {
			return err
		}
	}
	return s.begin(ctx, sources, settings, "")
}

// BeginDraft starts editing sources with settings loaded from the draft
// store. An unknown draft id starts from identity settings and is kept so a
// later SavedDraft outcome writes under the same id.
func (s *Session) BeginDraft(ctx context.Context, sources []Source, draftID string) error {
	if s.drafts == nil {
		return errs.Validation("begin", "no draft store configured")
	}
	if draftID == "" {
		return errs.Validation("begin", "draft id is required")
	}

	settings := adjust.New()
	rec, err := s.drafts.Load(ctx, draftID)
	switch {
	case err == nil:
		if settings, err = adjust.FromRecord(rec); err != nil {
			return err
		}
	case errs.Is(err, errs.KindNotFound):
		s.logger.Info("draft not found, starting fresh", "draft", draftID)
	default:
		return fmt.Errorf("failed to load draft %s: %w", draftID, err)
	}
	return s.begin(ctx, sources, settings, draftID)
}

func (s *Session) begin(ctx context.Context, sources []Source, settings adjust.Settings, draftID string) error {
	if len(sources) == 0 {
		return errs.Validation("begin", "at least one source image is required")
	}
	for i, src := range sources {
		if src.Image == nil || src.Image.Bounds().Empty() {
			return errs.Processing("begin", fmt.Sprintf("source %d has no pixels", i), nil)
		}
	}

	s.mu.Lock()
	busy := s.editing
	s.mu.Unlock()
	if busy {
		return errs.Validation("begin", "session is already editing")
	}

	lowRes := make([]image.Image, len(sources))
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return errs.Processing("begin", "cancelled", err)
		}
		small, err := s.renderer.Downsample(src.Image)
		if err != nil {
			return err
		}
		lowRes[i] = small
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing {
		return errs.Validation("begin", "session is already editing")
	}
	s.editing = true
	s.sources = append([]Source(nil), sources...)
	s.lowRes = lowRes
	s.previews = make([]Preview, len(sources))
	for i := range lowRes {
		s.previews[i] = Preview{Image: lowRes[i], Kind: KindInitial}
	}
	s.generations = make([]uint64, len(sources))
	s.realtime = make([]inflight, len(sources))
	s.settings = settings
	s.current = 0
	s.tool = ""
	s.draftID = draftID
	s.baseCtx, s.baseCancel = context.WithCancel(context.Background())

	s.logger.Info("session started", "images", len(sources), "draft", draftID, "active", len(settings.Active()))
	return nil
}

// State reports the session state. Rendering is derived from in-flight
// work; realtime takes precedence over finalizing.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.editing:
		return StateIdle
	case s.realtimeRenders > 0:
		return StateRenderingRealtime
	case s.finalizeRenders > 0:
		return StateRenderingFinalizing
	}
	return StateEditing
}

// Len returns the number of source images, 0 when idle.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources)
}

// CurrentIndex returns the index of the displayed image.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrentIndex changes the displayed image.
func (s *Session) SetCurrentIndex(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireEditing("set_current"); err != nil {
		return err
	}
	if i < 0 || i >= len(s.sources) {
		return errs.Validation("set_current", fmt.Sprintf("index %d out of range [0, %d)", i, len(s.sources)))
	}
	s.current = i
	return nil
}

// Settings returns a snapshot of the shared settings.
func (s *Session) Settings() adjust.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Preview returns the displayed preview of image i.
func (s *Session) Preview(i int) (Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.previews) {
		return Preview{}, false
	}
	return s.previews[i], true
}

// SelectTool makes id the active adjustment, replacing any previous one.
func (s *Session) SelectTool(id adjust.ID) error {
	if !id.Valid() {
		return errs.Validation("select_tool", "unknown adjustment "+string(id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireEditing("select_tool"); err != nil {
		return err
	}
	s.tool = id
	return nil
}

// ActiveTool returns the active adjustment, if any.
func (s *Session) ActiveTool() (adjust.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool, s.tool != ""
}

// DeselectTool clears the active adjustment.
func (s *Session) DeselectTool() {
	s.mu.Lock()
	s.tool = ""
	s.mu.Unlock()
}

// Drag sets id to value, makes id the active tool and issues a realtime
// render of the current image. It returns the generation of that render.
func (s *Session) Drag(id adjust.ID, value float64) (uint64, error) {
	if !id.Valid() {
		return 0, errs.Validation("drag", "unknown adjustment "+string(id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireEditing("drag"); err != nil {
		return 0, err
	}
	s.tool = id
	s.settings.Set(id, value)

	idx := s.current
	gen := s.nextGeneration(idx)
	if prev := s.realtime[idx]; prev.cancel != nil {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.realtime[idx] = inflight{generation: gen, cancel: cancel}
	s.realtimeRenders++

	snapshot := s.settings.Clone()
	src := s.lowRes[idx]
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		img, err := s.renderer.RenderRealtime(ctx, src, snapshot)
		s.complete(idx, gen, KindRealtime, img, err)
	}()
	return gen, nil
}

// Release issues one finalize render of the current image at preview
// quality. Later drags do not cancel it, but its result is dropped if a newer
// render has been issued by the time it finishes.
func (s *Session) Release() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireEditing("release"); err != nil {
		return 0, err
	}

	idx := s.current
	gen := s.nextGeneration(idx)
	s.finalizeRenders++

	ctx := s.baseCtx
	snapshot := s.settings.Clone()
	src := s.sources[idx].Image
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		img, err := s.renderer.RenderFinalize(ctx, src, snapshot)
		s.complete(idx, gen, KindFinalize, img, err)
	}()
	return gen, nil
}

// complete applies a finished render if it is still the newest for idx.
func (s *Session) complete(idx int, gen uint64, kind RenderKind, img image.Image, err error) {
	s.mu.Lock()
	switch kind {
	case KindRealtime:
		s.realtimeRenders--
		if idx < len(s.realtime) && s.realtime[idx].generation == gen {
			s.realtime[idx] = inflight{}
		}
	case KindFinalize:
		s.finalizeRenders--
	}

	if err != nil {
		s.mu.Unlock()
		if isCancelled(err) {
			s.logger.Debug("render cancelled", "image", idx, "generation", gen, "kind", kind)
		} else {
			s.logger.Warn("render failed", "image", idx, "generation", gen, "kind", kind, "err", err)
		}
		return
	}
	if !s.editing || idx >= len(s.generations) || s.generations[idx] != gen {
		s.mu.Unlock()
		s.logger.Debug("stale render dropped", "image", idx, "generation", gen, "kind", kind)
		return
	}

	p := Preview{Image: img, Generation: gen, Kind: kind}
	s.previews[idx] = p
	handler := s.onPreview
	s.mu.Unlock()

	if handler != nil {
		handler(idx, p)
	}
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// nextGeneration must be called with s.mu held.
func (s *Session) nextGeneration(idx int) uint64 {
	s.generations[idx]++
	return s.generations[idx]
}

// requireEditing must be called with s.mu held.
func (s *Session) requireEditing(op string) error {
	if !s.editing {
		return errs.Validation(op, "no active edit session")
	}
	return nil
}

// Wait blocks until every issued render has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

// End finishes the session with outcome and returns the persisted record.
//
// SavedDraft writes the record to the draft store under the session's draft
// id (a new id when the session did not start from a draft). Published and
// Discarded delete that draft if there is one. In every case in-flight
// renders are cancelled and the session returns to idle.
func (s *Session) End(ctx context.Context, outcome Outcome) (*EndResult, error) {
	if _, ok := ParseOutcome(string(outcome)); !ok {
		return nil, errs.Validation("end", "unknown outcome "+string(outcome))
	}

	s.mu.Lock()
	if err := s.requireEditing("end"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rec := s.settings.Record()
	draftID := s.draftID
	s.mu.Unlock()

	switch outcome {
	case SavedDraft:
		if s.drafts == nil {
			return nil, errs.Validation("end", "no draft store configured")
		}
		if draftID == "" {
			draftID = uuid.NewString()
		}
		if err := s.drafts.Save(ctx, draftID, rec); err != nil {
			return nil, fmt.Errorf("failed to save draft: %w", err)
		}
	default:
		if s.drafts != nil && draftID != "" {
			if err := s.drafts.Delete(ctx, draftID); err != nil && !errs.Is(err, errs.KindNotFound) {
				s.logger.Warn("failed to delete draft", "draft", draftID, "err", err)
			}
		}
		if outcome == Discarded {
			draftID = ""
		}
	}

	s.reset()
	s.logger.Info("session ended", "outcome", outcome, "draft", draftID)
	return &EndResult{Outcome: outcome, DraftID: draftID, Record: rec}, nil
}

// Close cancels in-flight renders, waits for them and returns to idle
// without touching the draft store.
func (s *Session) Close() {
	s.reset()
}

func (s *Session) reset() {
	s.mu.Lock()
	if s.baseCancel != nil {
		s.baseCancel()
	}
	s.editing = false
	s.sources = nil
	s.lowRes = nil
	s.previews = nil
	s.generations = nil
	s.realtime = nil
	s.settings = adjust.New()
	s.current = 0
	s.tool = ""
	s.draftID = ""
	s.mu.Unlock()

	s.wg.Wait()
}
