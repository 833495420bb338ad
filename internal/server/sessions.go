package server

import (
	"context"
	"encoding/json"

	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
	"github.com/ironsheep/photo-tools-mcp/internal/session"
)

// openSession is a session registered with the server and the paths of its
// working set.
type openSession struct {
	sess  *session.Session
	paths []string
}

func (s *Server) newSession() *session.Session {
	opts := []session.Option{
		session.WithLogger(s.logger),
		session.WithWorkers(s.workers),
	}
	if s.drafts != nil {
		opts = append(opts, session.WithDraftStore(s.drafts))
	}
	return session.New(s.engine, opts...)
}

func (s *Server) lookup(id string) (*openSession, error) {
	if id == "" {
		return nil, errs.Validation("session", "session_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, errs.NotFound("session", "unknown session "+id, nil)
	}
	return entry, nil
}

// SessionPreview describes the displayed preview of the current image.
type SessionPreview struct {
	Index      int          `json:"index"`
	Generation uint64       `json:"generation"`
	Kind       string       `json:"kind"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Image      *ImageResult `json:"image,omitempty"`
}

// SessionState is returned by every session tool that leaves the session open.
type SessionState struct {
	SessionID    string          `json:"session_id"`
	State        string          `json:"state"`
	Images       int             `json:"images"`
	CurrentIndex int             `json:"current_index"`
	ActiveTool   adjust.ID       `json:"active_tool,omitempty"`
	Record       adjust.Record   `json:"record"`
	Preview      *SessionPreview `json:"preview,omitempty"`
}

func (s *Server) state(entry *openSession, withImage bool) (*SessionState, error) {
	sess := entry.sess
	tool, _ := sess.ActiveTool()
	idx := sess.CurrentIndex()
	st := &SessionState{
		SessionID:    sess.ID(),
		State:        sess.State().String(),
		Images:       sess.Len(),
		CurrentIndex: idx,
		ActiveTool:   tool,
		Record:       sess.Settings().Record(),
	}

	p, ok := sess.Preview(idx)
	if !ok || p.Image == nil {
		return st, nil
	}
	b := p.Image.Bounds()
	st.Preview = &SessionPreview{
		Index:      idx,
		Generation: p.Generation,
		Kind:       p.Kind.String(),
		Width:      b.Dx(),
		Height:     b.Dy(),
	}
	if withImage {
		img, err := s.encodeImage(p.Image, 0)
		if err != nil {
			return nil, err
		}
		st.Preview.Image = img
	}
	return st, nil
}

// settle issues the finalize render, waits for it and reports the state.
func (s *Server) settle(entry *openSession, withImage bool) (*SessionState, error) {
	if _, err := entry.sess.Release(); err != nil {
		return nil, err
	}
	entry.sess.Wait()
	return s.state(entry, withImage)
}

type sessionArgs struct {
	SessionID      string `json:"session_id"`
	IncludePreview bool   `json:"include_preview"`
}

type sessionBeginArgs struct {
	Paths   []string       `json:"paths"`
	Record  *adjust.Record `json:"record"`
	DraftID string         `json:"draft_id"`
}

func (s *Server) handleSessionBegin(ctx context.Context, args json.RawMessage) (any, error) {
	var a sessionBeginArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, errs.Validation("session_begin", "at least one path is required")
	}
	if a.Record != nil && a.DraftID != "" {
		return nil, errs.Validation("session_begin", "record and draft_id are mutually exclusive")
	}

	sources := make([]session.Source, len(a.Paths))
	for i, p := range a.Paths {
		src, err := s.load(p)
		if err != nil {
			return nil, err
		}
		sources[i] = session.Source{Name: p, Image: src.Image}
	}

	sess := s.newSession()
	var err error
	if a.DraftID != "" {
		err = sess.BeginDraft(ctx, sources, a.DraftID)
	} else {
		err = sess.Begin(ctx, sources, a.Record)
	}
	if err != nil {
		return nil, err
	}

	entry := &openSession{sess: sess, paths: append([]string(nil), a.Paths...)}
	s.mu.Lock()
	s.sessions[sess.ID()] = entry
	s.mu.Unlock()
	return s.state(entry, false)
}

func (s *Server) handleSessionState(args json.RawMessage) (any, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	return s.state(entry, a.IncludePreview)
}

type sessionSelectArgs struct {
	SessionID string  `json:"session_id"`
	Index     *int    `json:"index"`
	Tool      *string `json:"tool"`
}

func (s *Server) handleSessionSelect(args json.RawMessage) (any, error) {
	var a sessionSelectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	if a.Index != nil {
		if err := entry.sess.SetCurrentIndex(*a.Index); err != nil {
			return nil, err
		}
	}
	if a.Tool != nil {
		if *a.Tool == "" {
			entry.sess.DeselectTool()
		} else if err := entry.sess.SelectTool(adjust.ID(*a.Tool)); err != nil {
			return nil, err
		}
	}
	return s.state(entry, false)
}

type sessionAdjustArgs struct {
	SessionID      string  `json:"session_id"`
	Adjustment     string  `json:"adjustment"`
	Value          float64 `json:"value"`
	Release        *bool   `json:"release"`
	IncludePreview bool    `json:"include_preview"`
}

func (s *Server) handleSessionAdjust(args json.RawMessage) (any, error) {
	var a sessionAdjustArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := adjust.ParseID(a.Adjustment)
	if err != nil {
		return nil, errs.Validation("session_adjust", err.Error())
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}

	if _, err := entry.sess.Drag(id, a.Value); err != nil {
		return nil, err
	}
	if a.Release != nil && !*a.Release {
		entry.sess.Wait()
		return s.state(entry, a.IncludePreview)
	}
	return s.settle(entry, a.IncludePreview)
}

type sessionFilterArgs struct {
	SessionID      string `json:"session_id"`
	Filter         string `json:"filter"`
	IncludePreview bool   `json:"include_preview"`
}

func (s *Server) handleSessionFilter(args json.RawMessage) (any, error) {
	var a sessionFilterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	f, err := adjust.ParseFilter(a.Filter)
	if err != nil {
		return nil, errs.Validation("session_filter", err.Error())
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	if err := entry.sess.SelectFilter(f); err != nil {
		return nil, err
	}
	return s.settle(entry, a.IncludePreview)
}

type sessionCropArgs struct {
	SessionID      string   `json:"session_id"`
	Reset          bool     `json:"reset"`
	Rotate         string   `json:"rotate"`
	FlipHorizontal bool     `json:"flip_horizontal"`
	FlipVertical   bool     `json:"flip_vertical"`
	FreeRotation   *float64 `json:"free_rotation"`
	AspectRatio    *string  `json:"aspect_ratio"`
	AutoStraighten bool     `json:"auto_straighten"`
	IncludePreview bool     `json:"include_preview"`
}

// StraightenResult reports an auto-straighten step.
type StraightenResult struct {
	Found        bool    `json:"found"`
	FreeRotation float64 `json:"free_rotation"`
}

func (s *Server) handleSessionCrop(args json.RawMessage) (any, error) {
	var a sessionCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	sess := entry.sess

	var steps []func() error
	if a.Reset {
		steps = append(steps, sess.ResetCrop)
	}
	switch a.Rotate {
	case "":
	case "left":
		steps = append(steps, sess.RotateLeft)
	case "right":
		steps = append(steps, sess.RotateRight)
	default:
		return nil, errs.Validation("session_crop", "rotate must be left or right, got "+a.Rotate)
	}
	if a.FlipHorizontal {
		steps = append(steps, sess.ToggleFlipHorizontal)
	}
	if a.FlipVertical {
		steps = append(steps, sess.ToggleFlipVertical)
	}
	if a.FreeRotation != nil {
		deg := *a.FreeRotation
		steps = append(steps, func() error { return sess.SetFreeRotation(deg) })
	}
	if a.AspectRatio != nil {
		aspect := adjust.AspectRatio(*a.AspectRatio)
		steps = append(steps, func() error { return sess.SetAspectRatio(aspect) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	var straighten *StraightenResult
	if a.AutoStraighten {
		angle, found, err := sess.AutoStraighten()
		if err != nil {
			return nil, err
		}
		straighten = &StraightenResult{Found: found, FreeRotation: angle}
	}

	st, err := s.settle(entry, a.IncludePreview)
	if err != nil {
		return nil, err
	}
	if straighten == nil {
		return st, nil
	}
	return struct {
		*SessionState
		Straighten *StraightenResult `json:"straighten"`
	}{st, straighten}, nil
}

type sessionResetArgs struct {
	SessionID      string `json:"session_id"`
	Adjustment     string `json:"adjustment"`
	IncludePreview bool   `json:"include_preview"`
}

func (s *Server) handleSessionReset(args json.RawMessage) (any, error) {
	var a sessionResetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}

	if a.Adjustment == "" {
		err = entry.sess.ResetAll()
	} else {
		var id adjust.ID
		if id, err = adjust.ParseID(a.Adjustment); err != nil {
			return nil, errs.Validation("session_reset", err.Error())
		}
		err = entry.sess.ResetAdjustment(id)
	}
	if err != nil {
		return nil, err
	}
	return s.settle(entry, a.IncludePreview)
}

func (s *Server) handleSessionRelease(args json.RawMessage) (any, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	return s.settle(entry, a.IncludePreview)
}

type sessionExportArgs struct {
	SessionID string `json:"session_id"`
	Quality   int    `json:"quality"`
}

// ExportedImage is one final image of a session export.
type ExportedImage struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	*ImageResult
}

func (s *Server) handleSessionExport(ctx context.Context, args json.RawMessage) (any, error) {
	var a sessionExportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}

	finals, err := entry.sess.GenerateFinalImages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ExportedImage, len(finals))
	for i, img := range finals {
		enc, err := s.encodeImage(img, a.Quality)
		if err != nil {
			return nil, err
		}
		out[i] = ExportedImage{Index: i, Path: entry.paths[i], ImageResult: enc}
	}
	return map[string]any{"session_id": a.SessionID, "images": out}, nil
}

type sessionEndArgs struct {
	SessionID string `json:"session_id"`
	Outcome   string `json:"outcome"`
}

func (s *Server) handleSessionEnd(ctx context.Context, args json.RawMessage) (any, error) {
	var a sessionEndArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	outcome, ok := session.ParseOutcome(a.Outcome)
	if !ok {
		return nil, errs.Validation("session_end", "outcome must be published, saved_draft or discarded")
	}
	entry, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}

	res, err := entry.sess.End(ctx, outcome)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	delete(s.sessions, a.SessionID)
	s.mu.Unlock()
	return res, nil
}
