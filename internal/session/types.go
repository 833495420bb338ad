package session

import (
	"context"
	"image"

	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
)

// Renderer is the render engine as seen by a session. Every method must be
// safe for concurrent use and must not retain the settings it is given.
type Renderer interface {
	// Downsample builds the low-resolution buffer used for realtime renders.
	Downsample(img image.Image) (image.Image, error)
	// RenderRealtime renders onto a low-resolution buffer. It should return
	// promptly once ctx is cancelled.
	RenderRealtime(ctx context.Context, lowRes image.Image, s adjust.Settings) (image.Image, error)
	// RenderFinalize renders the high-quality preview shown after release.
	RenderFinalize(ctx context.Context, src image.Image, s adjust.Settings) (image.Image, error)
	// RenderFinal renders at full resolution with the complete geometry.
	RenderFinal(ctx context.Context, src image.Image, s adjust.Settings) (image.Image, error)
	// Encode compresses a final image.
	Encode(img image.Image, quality int) ([]byte, error)
	// SuggestStraighten proposes a free rotation that levels the horizon of
	// img as oriented by c (ignoring c's own free rotation).
	SuggestStraighten(img image.Image, c adjust.Crop) (float64, bool)
}

// DraftStore persists adjustment records between sessions.
type DraftStore interface {
	Save(ctx context.Context, id string, rec adjust.Record) error
	// Load reports an unknown id with an error of kind errors.KindNotFound.
	Load(ctx context.Context, id string) (adjust.Record, error)
	Delete(ctx context.Context, id string) error
}

// Source is one image in the working set.
type Source struct {
	Name  string
	Image image.Image
}

// State is the session state as reported by State.
type State int

const (
	StateIdle State = iota
	StateEditing
	StateRenderingRealtime
	StateRenderingFinalizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateRenderingRealtime:
		return "rendering_realtime"
	case StateRenderingFinalizing:
		return "rendering_finalizing"
	}
	return "unknown"
}

// RenderKind is the quality tier of a preview render.
type RenderKind int

const (
	KindInitial RenderKind = iota
	KindRealtime
	KindFinalize
)

func (k RenderKind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindRealtime:
		return "realtime"
	case KindFinalize:
		return "finalize"
	}
	return "unknown"
}

// Preview is the image currently displayed for one source.
type Preview struct {
	Image      image.Image
	Generation uint64
	Kind       RenderKind
}

// PreviewHandler receives applied previews.
type PreviewHandler func(index int, p Preview)

// Outcome is how a session ends.
type Outcome string

const (
	Published  Outcome = "published"
	SavedDraft Outcome = "saved_draft"
	Discarded  Outcome = "discarded"
)

// ParseOutcome validates an outcome name.
func ParseOutcome(s string) (Outcome, bool) {
	switch o := Outcome(s); o {
	case Published, SavedDraft, Discarded:
		return o, true
	}
	return "", false
}

// EndResult reports what End persisted.
type EndResult struct {
	Outcome Outcome       `json:"outcome"`
	DraftID string        `json:"draft_id,omitempty"`
	Record  adjust.Record `json:"record"`
}
