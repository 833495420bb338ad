package main

import (
	"os"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-tools-mcp/internal/config"
	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
	"github.com/ironsheep/photo-tools-mcp/internal/logging"
	"github.com/ironsheep/photo-tools-mcp/internal/ocr"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *clog.Logger
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the MCP server.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "photo-mcp",
		Short: "MCP server for photo adjustments and color analysis",
		Long: `photo-mcp renders photo adjustments, filters and crops, and analyzes
dominant colors, color temperature, sky scene and capture metadata.

Without a subcommand it serves MCP over stdin/stdout. Configure it in your
MCP client (e.g., Claude Desktop).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/photo-mcp/config.toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(
		newServeCmd(a),
		newRenderCmd(a),
		newAnalyzeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	root.SetErrPrefix("photo-mcp:")
	return root
}

// setup resolves the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, os.LookupEnv)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// newEngine builds the render engine, with the date-stamp reader when enabled.
func (a *app) newEngine() *imaging.Engine {
	opts := []imaging.EngineOption{imaging.WithEngineLogger(a.logger)}
	if a.cfg.DatestampOCR {
		opts = append(opts, imaging.WithDatestampReader(ocr.NewReader(a.cfg.OCRLanguage, a.logger)))
	}
	return imaging.NewEngine(a.cfg.Engine(), opts...)
}
