// Package server implements the MCP (Model Context Protocol) server for the
// photo adjustment tools.
//
// This package provides a JSON-RPC 2.0 server that exposes rendering, color
// analysis and edit sessions through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Single-image rendering:
//   - photo_load: Load a photo and report its dimensions
//   - photo_preview: Render a preview with an adjustment record
//   - photo_export: Render at full resolution and compress to JPEG
//
// Analysis:
//   - photo_analyze: Colors, temperature, scene, capture metadata
//   - photo_dominant_colors: Color palette
//   - photo_filter_by_color: Color-distance search over tagged items
//   - photo_crop_guides: Crop frame and thirds overlay
//   - photo_straighten: Horizon-leveling suggestion
//   - photo_list_adjustments: Adjustment ids, filters and aspect ratios
//   - photo_list_drafts: Saved drafts
//
// Edit sessions:
//   - photo_session_begin, photo_session_state, photo_session_select
//   - photo_session_adjust, photo_session_filter, photo_session_crop
//   - photo_session_reset, photo_session_release
//   - photo_session_export, photo_session_end
//
// A session keeps one shared set of adjustments over its working set of
// photos. Tools that change the settings issue a finalize render of the
// current photo and return once it has been applied, so the reported preview
// always reflects the returned record.
//
// # Image Caching
//
// Photos are decoded once per path and reused across tool calls and
// sessions for the lifetime of the server process.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors. Invalid arguments use code
// -32602, everything else -32000. The data member is an ErrorData carrying
// the failure kind (validation, not_found, processing_failure,
// compression_failure or invalid_color_format).
//
// # Usage
//
//	engine := imaging.NewEngine(imaging.DefaultEngineConfig())
//	cache := imaging.NewImageCache(imaging.DefaultMaxInputDim)
//	srv := server.New(engine, cache, server.WithLogger(logger))
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
