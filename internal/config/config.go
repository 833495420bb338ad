// Package config resolves photo-mcp settings from built-in defaults, an
// optional TOML file and PHOTO_MCP_* environment variables, in that order.
// Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
	"github.com/ironsheep/photo-tools-mcp/internal/logging"
	"github.com/ironsheep/photo-tools-mcp/internal/session"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PHOTO_MCP_"

	// FileExtTOML is the extension of config files.
	FileExtTOML = ".toml"

	appDir = "photo-mcp"
)

// Environment variables read by Load.
const (
	EnvConfigPath   = EnvPrefix + "CONFIG"
	EnvLogLevel     = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat    = EnvPrefix + "LOG_FORMAT"
	EnvDraftsPath   = EnvPrefix + "DRAFTS"
	EnvDatestampOCR = EnvPrefix + "DATESTAMP_OCR"
)

const maxDominantColors = 32

// Config holds every tunable of the server and the CLI.
type Config struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	MaxInputDim        int `toml:"max_input_dim"`
	PreviewSize        int `toml:"preview_size"`
	RealtimeSize       int `toml:"realtime_size"`
	ExportQuality      int `toml:"export_quality"`
	MaxCompressedBytes int `toml:"max_compressed_bytes"`
	FinalWorkers       int `toml:"final_workers"`
	DominantColors     int `toml:"dominant_colors"`

	DraftsPath   string `toml:"drafts_path"`
	DatestampOCR bool   `toml:"datestamp_ocr"`
	OCRLanguage  string `toml:"ocr_language"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:           "info",
		LogFormat:          logging.FormatText,
		MaxInputDim:        imaging.DefaultMaxInputDim,
		PreviewSize:        imaging.DefaultPreviewSize,
		RealtimeSize:       imaging.DefaultRealtimeSize,
		ExportQuality:      imaging.DefaultQuality,
		MaxCompressedBytes: imaging.MaxCompressedBytes,
		FinalWorkers:       session.DefaultWorkers,
		DominantColors:     imaging.DefaultDominantColors,
		DraftsPath:         DefaultDraftsPath(),
		OCRLanguage:        "eng",
	}
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration. path names the TOML file; when empty the
// PHOTO_MCP_CONFIG variable is consulted, then the default location. A
// missing default file is not an error, a missing explicit one is.
func Load(path string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, ok := lookup(EnvConfigPath); ok && p != "" {
			path, explicit = p, true
		} else {
			path = DefaultConfigPath()
		}
	}

	if path != "" {
		if err := cfg.mergeFile(path, explicit); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	if ext := filepath.Ext(path); ext != FileExtTOML {
		return fmt.Errorf("config file %s: unsupported extension %q", path, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config %s: unknown keys:\n%s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	if v, ok := lookup(EnvDraftsPath); ok && v != "" {
		c.DraftsPath = v
	}
	if v, ok := lookup(EnvDatestampOCR); ok && v != "" {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDatestampOCR, err)
		}
		c.DatestampOCR = b
	}
	return nil
}

// parseBool accepts the usual spellings of on and off.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return strconv.ParseBool(v)
}

// Validate reports every out-of-range field at once.
func (c Config) Validate() error {
	var problems []error
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		bad("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		bad("log_format %q: want text or json", c.LogFormat)
	}
	if c.MaxInputDim <= 0 {
		bad("max_input_dim must be positive, got %d", c.MaxInputDim)
	}
	if c.PreviewSize <= 0 {
		bad("preview_size must be positive, got %d", c.PreviewSize)
	}
	if c.RealtimeSize <= 0 || c.RealtimeSize > c.PreviewSize {
		bad("realtime_size must be in 1..preview_size, got %d", c.RealtimeSize)
	}
	if c.ExportQuality < 1 || c.ExportQuality > 100 {
		bad("export_quality must be in 1..100, got %d", c.ExportQuality)
	}
	if c.MaxCompressedBytes <= 0 || c.MaxCompressedBytes > imaging.MaxCompressedBytes {
		bad("max_compressed_bytes must be in 1..%d, got %d", imaging.MaxCompressedBytes, c.MaxCompressedBytes)
	}
	if c.FinalWorkers < 1 {
		bad("final_workers must be at least 1, got %d", c.FinalWorkers)
	}
	if c.DominantColors < 1 || c.DominantColors > maxDominantColors {
		bad("dominant_colors must be in 1..%d, got %d", maxDominantColors, c.DominantColors)
	}
	if c.DatestampOCR && c.OCRLanguage == "" {
		bad("ocr_language is required when datestamp_ocr is on")
	}
	return errors.Join(problems...)
}

// Engine returns the render engine settings.
func (c Config) Engine() imaging.EngineConfig {
	ec := imaging.DefaultEngineConfig()
	ec.PreviewSize = imaging.Square(c.PreviewSize)
	ec.RealtimeSize = imaging.Square(c.RealtimeSize)
	ec.Quality = c.ExportQuality
	ec.MaxBytes = c.MaxCompressedBytes
	return ec
}

// TOML renders the configuration as a config file.
func (c Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

// DefaultConfigPath is $XDG_CONFIG_HOME/photo-mcp/config.toml, or the
// ~/.config equivalent. It is empty when no home directory is known.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, "config"+FileExtTOML)
}

// DefaultDraftsPath is $XDG_STATE_HOME/photo-mcp/drafts.db, falling back to
// ~/.local/state. Without a home directory drafts are kept in memory.
func DefaultDraftsPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDir, "drafts.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ":memory:"
	}
	return filepath.Join(home, ".local", "state", appDir, "drafts.db")
}
