package session

import (
	clog "github.com/charmbracelet/log"

	"github.com/ironsheep/photo-tools-mcp/internal/logging"
)

// DefaultWorkers bounds concurrent full-resolution renders.
const DefaultWorkers = 4

type options struct {
	id        string
	logger    *clog.Logger
	drafts    DraftStore
	workers   int
	onPreview PreviewHandler
}

func defaultOptions() options {
	return options{
		logger:  logging.Discard(),
		workers: DefaultWorkers,
	}
}

// Option configures a Session.
type Option func(*options)

// WithLogger sets the logger. The session adds its own "session" field.
func WithLogger(l *clog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDraftStore enables BeginDraft and the SavedDraft outcome.
func WithDraftStore(d DraftStore) Option {
	return func(o *options) {
		o.drafts = d
	}
}

// WithWorkers bounds concurrent final renders. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithPreviewHandler registers a callback invoked, outside the session lock,
// each time a render result replaces an image's preview.
func WithPreviewHandler(fn PreviewHandler) Option {
	return func(o *options) {
		o.onPreview = fn
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.id = id
		}
	}
}
