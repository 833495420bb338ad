package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
)

func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4096, cfg.MaxInputDim)
	assert.Equal(t, 1024, cfg.PreviewSize)
	assert.Equal(t, 512, cfg.RealtimeSize)
	assert.Equal(t, 90, cfg.ExportQuality)
	assert.Equal(t, imaging.MaxCompressedBytes, cfg.MaxCompressedBytes)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default().PreviewSize, cfg.PreviewSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), env(nil))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
preview_size = 800
realtime_size = 256
final_workers = 2
drafts_path = "/tmp/drafts.db"
`)

	cfg, err := Load(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 800, cfg.PreviewSize)
	assert.Equal(t, 256, cfg.RealtimeSize)
	assert.Equal(t, 2, cfg.FinalWorkers)
	assert.Equal(t, "/tmp/drafts.db", cfg.DraftsPath)
	assert.Equal(t, 90, cfg.ExportQuality, "unset keys keep defaults")
}

func TestLoadFileFromEnv(t *testing.T) {
	path := writeConfig(t, `export_quality = 70`)

	cfg, err := Load("", env(map[string]string{EnvConfigPath: path}))
	require.NoError(t, err)
	assert.Equal(t, 70, cfg.ExportQuality)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
log_format = "text"
drafts_path = "/from/file.db"
`)

	cfg, err := Load(path, env(map[string]string{
		EnvLogLevel:     "WARN",
		EnvLogFormat:    "json",
		EnvDraftsPath:   "/from/env.db",
		EnvDatestampOCR: "yes",
	}))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/from/env.db", cfg.DraftsPath)
	assert.True(t, cfg.DatestampOCR)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `preview_sise = 800`)

	_, err := Load(path, env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
}

func TestLoadRejectsBadSyntax(t *testing.T) {
	path := writeConfig(t, `preview_size = `)

	_, err := Load(path, env(nil))
	require.Error(t, err)
}

func TestLoadRejectsWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Load(path, env(nil))
	require.Error(t, err)
}

func TestLoadRejectsBadBool(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Load("", env(map[string]string{EnvDatestampOCR: "maybe"}))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"max input", func(c *Config) { c.MaxInputDim = 0 }},
		{"preview", func(c *Config) { c.PreviewSize = -1 }},
		{"realtime above preview", func(c *Config) { c.RealtimeSize = c.PreviewSize + 1 }},
		{"quality low", func(c *Config) { c.ExportQuality = 0 }},
		{"quality high", func(c *Config) { c.ExportQuality = 101 }},
		{"compressed cap", func(c *Config) { c.MaxCompressedBytes = imaging.MaxCompressedBytes + 1 }},
		{"workers", func(c *Config) { c.FinalWorkers = 0 }},
		{"colors", func(c *Config) { c.DominantColors = 33 }},
		{"ocr language", func(c *Config) { c.DatestampOCR, c.OCRLanguage = true, "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"
	cfg.FinalWorkers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
	assert.Contains(t, err.Error(), "final_workers")
}

func TestEngine(t *testing.T) {
	cfg := Default()
	cfg.PreviewSize = 640
	cfg.RealtimeSize = 320
	cfg.ExportQuality = 75
	cfg.MaxCompressedBytes = 1 << 20

	ec := cfg.Engine()
	assert.Equal(t, imaging.Square(640), ec.PreviewSize)
	assert.Equal(t, imaging.Square(320), ec.RealtimeSize)
	assert.Equal(t, 75, ec.Quality)
	assert.Equal(t, 1<<20, ec.MaxBytes)
}

func TestTOMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.DraftsPath = "/somewhere/drafts.db"

	data, err := cfg.TOML()
	require.NoError(t, err)

	var back Config
	require.NoError(t, toml.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}

func TestDefaultDraftsPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "photo-mcp", "drafts.db"), DefaultDraftsPath())
}
