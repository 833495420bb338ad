package server

import (
	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
	"github.com/ironsheep/photo-tools-mcp/internal/session"
)

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func pathProp() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func sessionProp() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session id returned by photo_session_begin",
	}
}

func recordProp() map[string]any {
	return map[string]any{
		"type":        "object",
		"description": "Adjustment record: {adjustments: {id: value}, filter, rotation, flipHorizontal, flipVertical, aspectRatio}. Omit for an unedited render.",
		"properties": map[string]any{
			"adjustments": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number", "minimum": -1, "maximum": 1},
			},
			"filter":         map[string]any{"type": "string", "enum": filterNames()},
			"rotation":       map[string]any{"type": "number", "description": "Total rotation in degrees, quarter turns plus straighten"},
			"flipHorizontal": map[string]any{"type": "boolean"},
			"flipVertical":   map[string]any{"type": "boolean"},
			"aspectRatio":    map[string]any{"type": "string", "enum": aspectNames()},
		},
	}
}

func includePreviewProp() map[string]any {
	return map[string]any{
		"type":        "boolean",
		"description": "Include the displayed preview as base64 JPEG",
	}
}

func maxColorsProp() map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": "Maximum number of colors to return. Default 5",
		"minimum":     1,
		"maximum":     32,
	}
}

func adjustmentNames() []string {
	ids := adjust.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func filterNames() []string {
	out := []string{""}
	for _, f := range adjust.Filters() {
		out = append(out, string(f))
	}
	return out
}

func aspectNames() []string {
	out := []string{""}
	for _, a := range adjust.AspectRatios() {
		out = append(out, string(a))
	}
	return out
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Single-image rendering
		{
			Name:        "photo_load",
			Description: "Load a photo and return its dimensions, format and file size. The decoded image is cached for later calls.",
			InputSchema: objectSchema(map[string]any{"path": pathProp()}, "path"),
		},
		{
			Name:        "photo_preview",
			Description: "Render a preview of a photo with an optional adjustment record and return it as base64 JPEG.",
			InputSchema: objectSchema(map[string]any{
				"path":   pathProp(),
				"record": recordProp(),
				"max_size": map[string]any{
					"type":        "integer",
					"description": "Longest side of the preview in pixels. Default is the configured preview size",
				},
			}, "path"),
		},
		{
			Name:        "photo_export",
			Description: "Render a photo at full resolution with an adjustment record and return base64 JPEG no larger than 5 MiB.",
			InputSchema: objectSchema(map[string]any{
				"path":   pathProp(),
				"record": recordProp(),
				"quality": map[string]any{
					"type":        "integer",
					"description": "JPEG quality 1-100. Default is the configured export quality",
					"minimum":     1,
					"maximum":     100,
				},
			}, "path"),
		},

		// Analysis
		{
			Name:        "photo_analyze",
			Description: "Analyze a photo: dominant colors, color temperature, scene type, capture metadata and time of day.",
			InputSchema: objectSchema(map[string]any{
				"path":       pathProp(),
				"max_colors": maxColorsProp(),
			}, "path"),
		},
		{
			Name:        "photo_dominant_colors",
			Description: "Extract the dominant color palette of a photo as hex colors with coverage percentages.",
			InputSchema: objectSchema(map[string]any{
				"path":       pathProp(),
				"max_colors": maxColorsProp(),
			}, "path"),
		},
		{
			Name:        "photo_filter_by_color",
			Description: "Keep the items with at least one color within threshold of a target hex color. An invalid target returns the items unchanged.",
			InputSchema: objectSchema(map[string]any{
				"items": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":     map[string]any{"type": "string"},
							"colors": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
					},
				},
				"target": map[string]any{
					"type":        "string",
					"description": "Target color as #RRGGBB",
				},
				"threshold": map[string]any{
					"type":        "number",
					"description": "Maximum RGB distance (0 to 1.732). Default 0.25",
				},
			}, "items", "target"),
		},
		{
			Name:        "photo_crop_guides",
			Description: "Overlay a crop frame with rule-of-thirds guides on a preview of the photo.",
			InputSchema: objectSchema(map[string]any{
				"path": pathProp(),
				"aspect_ratio": map[string]any{
					"type": "string",
					"enum": aspectNames(),
				},
				"color": map[string]any{
					"type":        "string",
					"description": "Guide line color as #RRGGBB. Default #FFFFFF",
				},
			}, "path"),
		},
		{
			Name:        "photo_straighten",
			Description: "Detect the horizon of a photo and suggest the free rotation that levels it.",
			InputSchema: objectSchema(map[string]any{
				"path":   pathProp(),
				"record": recordProp(),
			}, "path"),
		},
		{
			Name:        "photo_list_adjustments",
			Description: "List the adjustment ids with their groups, the preset filters and the crop aspect ratios.",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "photo_list_drafts",
			Description: "List saved adjustment drafts, newest first.",
			InputSchema: objectSchema(map[string]any{}),
		},

		// Edit sessions
		{
			Name:        "photo_session_begin",
			Description: "Start an edit session over one or more photos. The settings are shared by every photo in the session.",
			InputSchema: objectSchema(map[string]any{
				"paths": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Absolute paths of the working set, in display order",
				},
				"record": recordProp(),
				"draft_id": map[string]any{
					"type":        "string",
					"description": "Resume from a saved draft. An unknown id starts fresh and is saved under that id",
				},
			}, "paths"),
		},
		{
			Name:        "photo_session_state",
			Description: "Report a session's state, current photo, active tool and settings. Optionally include the displayed preview.",
			InputSchema: objectSchema(map[string]any{
				"session_id":      sessionProp(),
				"include_preview": includePreviewProp(),
			}, "session_id"),
		},
		{
			Name:        "photo_session_select",
			Description: "Change the displayed photo and/or the active adjustment tool. An empty tool deselects it.",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionProp(),
				"index":      map[string]any{"type": "integer", "minimum": 0},
				"tool":       map[string]any{"type": "string", "enum": append([]string{""}, adjustmentNames()...)},
			}, "session_id"),
		},
		{
			Name:        "photo_session_adjust",
			Description: "Set one adjustment as a slider drag would, render the realtime preview and, unless release is false, the finalized preview.",
			InputSchema: objectSchema(map[string]any{
				"session_id":      sessionProp(),
				"adjustment":      map[string]any{"type": "string", "enum": adjustmentNames()},
				"value":           map[string]any{"type": "number", "minimum": -1, "maximum": 1},
				"release":         map[string]any{"type": "boolean", "default": true},
				"include_preview": includePreviewProp(),
			}, "session_id", "adjustment", "value"),
		},
		{
			Name:        "photo_session_filter",
			Description: "Select a preset filter for the session. An empty name removes it.",
			InputSchema: objectSchema(map[string]any{
				"session_id":      sessionProp(),
				"filter":          map[string]any{"type": "string", "enum": filterNames()},
				"include_preview": includePreviewProp(),
			}, "session_id", "filter"),
		},
		{
			Name:        "photo_session_crop",
			Description: "Change the session geometry: quarter turns, flips, straighten angle, aspect ratio or auto-straighten. Steps apply in that order.",
			InputSchema: objectSchema(map[string]any{
				"session_id":      sessionProp(),
				"reset":           map[string]any{"type": "boolean", "description": "Restore the uncropped geometry first"},
				"rotate":          map[string]any{"type": "string", "enum": []string{"left", "right"}},
				"flip_horizontal": map[string]any{"type": "boolean", "description": "Toggle the horizontal flip"},
				"flip_vertical":   map[string]any{"type": "boolean", "description": "Toggle the vertical flip"},
				"free_rotation":   map[string]any{"type": "number", "minimum": -45, "maximum": 45},
				"aspect_ratio":    map[string]any{"type": "string", "enum": aspectNames()},
				"auto_straighten": map[string]any{"type": "boolean"},
				"include_preview": includePreviewProp(),
			}, "session_id"),
		},
		{
			Name:        "photo_session_reset",
			Description: "Reset one adjustment, or every adjustment and the filter when none is given. The crop is kept.",
			InputSchema: objectSchema(map[string]any{
				"session_id":      sessionProp(),
				"adjustment":      map[string]any{"type": "string", "enum": adjustmentNames()},
				"include_preview": includePreviewProp(),
			}, "session_id"),
		},
		{
			Name:        "photo_session_release",
			Description: "Render the finalized preview of the current photo with the current settings.",
			InputSchema: objectSchema(map[string]any{
				"session_id":      sessionProp(),
				"include_preview": includePreviewProp(),
			}, "session_id"),
		},
		{
			Name:        "photo_session_export",
			Description: "Render every photo in the session at full resolution and return them as base64 JPEG, in session order.",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionProp(),
				"quality":    map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
			}, "session_id"),
		},
		{
			Name:        "photo_session_end",
			Description: "End a session. saved_draft stores the settings for later; published and discarded remove its draft.",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionProp(),
				"outcome": map[string]any{
					"type": "string",
					"enum": []string{string(session.Published), string(session.SavedDraft), string(session.Discarded)},
				},
			}, "session_id", "outcome"),
		},
	}
}
