package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
	"github.com/ironsheep/photo-tools-mcp/internal/colormath"
	"github.com/ironsheep/photo-tools-mcp/internal/drafts"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
)

// DefaultColorThreshold is the photo_filter_by_color distance when none is given.
const DefaultColorThreshold = 0.25

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "photo_load", "photo_session_adjust").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ErrorData is the data member of a failed tool call.
type ErrorData struct {
	Kind      errs.Kind `json:"kind"`
	Detail    string    `json:"detail"`
	Retryable bool      `json:"retryable"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Validation failures return code -32602, every other failure -32000. The
// error data carries the failure kind.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return toolError(req.ID, err)
	}
	s.logger.Debug("tool done", "tool", params.Name, "elapsed", time.Since(start).Round(time.Millisecond))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"content": []map[string]any{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func toolError(id any, err error) *MCPResponse {
	kind := errs.KindOf(err)
	code := codeToolFailed
	switch kind {
	case errs.KindValidation, errs.KindInvalidColorFormat:
		code = codeInvalidParams
	case "":
		kind = errs.KindProcessing
	}
	var e *errs.Error
	retryable := errors.As(err, &e) && e.Retryable()
	return errorResponse(id, code, "Tool execution failed", ErrorData{
		Kind:      kind,
		Detail:    err.Error(),
		Retryable: retryable,
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {
	// Single-image rendering
	case "photo_load":
		return s.handlePhotoLoad(args)
	case "photo_preview":
		return s.handlePhotoPreview(ctx, args)
	case "photo_export":
		return s.handlePhotoExport(ctx, args)

	// Analysis
	case "photo_analyze":
		return s.handlePhotoAnalyze(ctx, args)
	case "photo_dominant_colors":
		return s.handlePhotoDominantColors(args)
	case "photo_filter_by_color":
		return s.handlePhotoFilterByColor(args)
	case "photo_crop_guides":
		return s.handlePhotoCropGuides(args)
	case "photo_straighten":
		return s.handlePhotoStraighten(args)
	case "photo_list_adjustments":
		return s.handleListAdjustments()
	case "photo_list_drafts":
		return s.handleListDrafts(ctx)

	// Edit sessions
	case "photo_session_begin":
		return s.handleSessionBegin(ctx, args)
	case "photo_session_state":
		return s.handleSessionState(args)
	case "photo_session_select":
		return s.handleSessionSelect(args)
	case "photo_session_adjust":
		return s.handleSessionAdjust(args)
	case "photo_session_filter":
		return s.handleSessionFilter(args)
	case "photo_session_crop":
		return s.handleSessionCrop(args)
	case "photo_session_reset":
		return s.handleSessionReset(args)
	case "photo_session_release":
		return s.handleSessionRelease(args)
	case "photo_session_export":
		return s.handleSessionExport(ctx, args)
	case "photo_session_end":
		return s.handleSessionEnd(ctx, args)

	default:
		return nil, errs.Validation("tools/call", "unknown tool: "+name)
	}
}

// mustMarshalJSON converts a value to a pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments leave v at its
// zero value.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return errs.Validation("arguments", err.Error())
	}
	return nil
}

func (s *Server) load(path string) (*imaging.LoadedSource, error) {
	if path == "" {
		return nil, errs.Validation("load", "path is required")
	}
	return s.cache.Load(path)
}

func settingsFrom(rec *adjust.Record) (adjust.Settings, error) {
	if rec == nil {
		return adjust.New(), nil
	}
	return adjust.FromRecord(*rec)
}

func (s *Server) colorCount(n int) int {
	if n <= 0 {
		return s.dominantColors
	}
	return n
}

// ImageResult is an encoded image returned by a tool.
type ImageResult struct {
	MimeType    string `json:"mime_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Quality     int    `json:"quality"`
	SizeBytes   int    `json:"size_bytes"`
	Size        string `json:"size"`
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) encodeImage(img image.Image, quality int) (*ImageResult, error) {
	c, err := s.engine.Compress(img, quality)
	if err != nil {
		return nil, err
	}
	return &ImageResult{
		MimeType:    "image/jpeg",
		Width:       c.Width,
		Height:      c.Height,
		Quality:     c.Quality,
		SizeBytes:   len(c.Data),
		Size:        humanize.IBytes(uint64(len(c.Data))),
		ImageBase64: base64.StdEncoding.EncodeToString(c.Data),
	}, nil
}

// === Single-image handlers ===

type photoPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handlePhotoLoad(args json.RawMessage) (any, error) {
	var a photoPathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	src, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	return src.Info, nil
}

type photoPreviewArgs struct {
	Path    string         `json:"path"`
	Record  *adjust.Record `json:"record"`
	MaxSize int            `json:"max_size"`
}

func (s *Server) handlePhotoPreview(ctx context.Context, args json.RawMessage) (any, error) {
	var a photoPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	settings, err := settingsFrom(a.Record)
	if err != nil {
		return nil, err
	}
	src, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	limit := s.engine.Config().PreviewSize
	if a.MaxSize > 0 {
		limit = imaging.Square(a.MaxSize)
	}
	img, err := imaging.GeneratePreview(ctx, src.Image, settings, limit)
	if err != nil {
		return nil, err
	}
	return s.encodeImage(img, 0)
}

type photoExportArgs struct {
	Path    string         `json:"path"`
	Record  *adjust.Record `json:"record"`
	Quality int            `json:"quality"`
}

func (s *Server) handlePhotoExport(ctx context.Context, args json.RawMessage) (any, error) {
	var a photoExportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	settings, err := settingsFrom(a.Record)
	if err != nil {
		return nil, err
	}
	src, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.engine.RenderFinal(ctx, src.Image, settings)
	if err != nil {
		return nil, err
	}
	return s.encodeImage(img, a.Quality)
}

// === Analysis handlers ===

type photoColorsArgs struct {
	Path      string `json:"path"`
	MaxColors int    `json:"max_colors"`
}

func (s *Server) handlePhotoAnalyze(ctx context.Context, args json.RawMessage) (any, error) {
	var a photoColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	src, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.engine.Analyze(ctx, src.Image, src.Raw, s.colorCount(a.MaxColors))
}

func (s *Server) handlePhotoDominantColors(args json.RawMessage) (any, error) {
	var a photoColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	src, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	palette, err := imaging.DominantPalette(src.Image, s.colorCount(a.MaxColors))
	if err != nil {
		return nil, err
	}
	return map[string]any{"colors": palette}, nil
}

type photoFilterByColorArgs struct {
	Items     []colormath.Item `json:"items"`
	Target    string           `json:"target"`
	Threshold *float64         `json:"threshold"`
}

func (s *Server) handlePhotoFilterByColor(args json.RawMessage) (any, error) {
	var a photoFilterByColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	threshold := DefaultColorThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 {
		return nil, errs.Validation("filter_by_color", "threshold must not be negative")
	}

	_, parseErr := colormath.HexToRGB(a.Target)
	kept := colormath.FilterByColorDistance(a.Items, a.Target, threshold)
	if kept == nil {
		kept = []colormath.Item{}
	}
	return map[string]any{
		"items":     kept,
		"count":     len(kept),
		"filtered":  parseErr == nil,
		"threshold": threshold,
	}, nil
}

type photoCropGuidesArgs struct {
	Path        string `json:"path"`
	AspectRatio string `json:"aspect_ratio"`
	Color       string `json:"color"`
}

// FrameRect is a crop frame in preview pixel coordinates.
type FrameRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handlePhotoCropGuides(args json.RawMessage) (any, error) {
	var a photoCropGuidesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	aspect, err := adjust.ParseAspectRatio(a.AspectRatio)
	if err != nil {
		return nil, errs.Validation("crop_guides", err.Error())
	}
	src, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	preview, err := imaging.Resize(src.Image, s.engine.Config().PreviewSize)
	if err != nil {
		return nil, err
	}
	overlay, frame, err := imaging.CropGuides(preview, aspect, a.Color)
	if err != nil {
		return nil, err
	}
	encoded, err := s.encodeImage(overlay, 0)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"image": encoded,
		"frame": FrameRect{X: frame.Min.X, Y: frame.Min.Y, Width: frame.Dx(), Height: frame.Dy()},
	}, nil
}

type photoStraightenArgs struct {
	Path   string         `json:"path"`
	Record *adjust.Record `json:"record"`
}

func (s *Server) handlePhotoStraighten(args json.RawMessage) (any, error) {
	var a photoStraightenArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	settings, err := settingsFrom(a.Record)
	if err != nil {
		return nil, err
	}
	src, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	small, err := s.engine.Downsample(src.Image)
	if err != nil {
		return nil, err
	}

	crop := settings.Crop()
	angle, found := s.engine.SuggestStraighten(small, crop)
	return map[string]any{
		"found":            found,
		"free_rotation":    angle,
		"current_rotation": crop.FreeRotation,
	}, nil
}

// AdjustmentInfo describes one adjustment id.
type AdjustmentInfo struct {
	ID            adjust.ID    `json:"id"`
	Group         adjust.Group `json:"group"`
	Bidirectional bool         `json:"bidirectional"`
}

func (s *Server) handleListAdjustments() (any, error) {
	ids := adjust.IDs()
	infos := make([]AdjustmentInfo, len(ids))
	for i, id := range ids {
		infos[i] = AdjustmentInfo{ID: id, Group: id.Group(), Bidirectional: id.Bidirectional()}
	}
	return map[string]any{
		"adjustments":   infos,
		"filters":       adjust.Filters(),
		"aspect_ratios": adjust.AspectRatios(),
	}, nil
}

type draftLister interface {
	List(ctx context.Context) ([]drafts.Draft, error)
}

func (s *Server) handleListDrafts(ctx context.Context) (any, error) {
	lister, ok := s.drafts.(draftLister)
	if !ok {
		return nil, errs.Validation("list_drafts", "no draft store configured")
	}
	list, err := lister.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []drafts.Draft{}
	}
	return map[string]any{"drafts": list, "count": len(list)}, nil
}
