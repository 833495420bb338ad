package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var colors int
	cmd := &cobra.Command{
		Use:   "analyze <photo>...",
		Short: "Print color, scene and capture analysis as JSON",
		Long: `Print dominant colors, color temperature, sky scene type, capture metadata
and time of day for each photo, as one JSON object per line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if colors <= 0 {
				colors = a.cfg.DominantColors
			}
			return a.analyze(cmd, args, colors)
		},
	}
	cmd.Flags().IntVarP(&colors, "colors", "n", 0, "number of dominant colors (default dominant_colors)")
	return cmd
}

// analyzeLine is one line of analyze output.
type analyzeLine struct {
	Path string `json:"path"`
	*imaging.Analysis
}

func (a *app) analyze(cmd *cobra.Command, paths []string, colors int) error {
	engine := a.newEngine()
	enc := json.NewEncoder(cmd.OutOrStdout())

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read photo: %w", err)
		}
		img, err := imaging.DecodeSource(raw, a.cfg.MaxInputDim)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		res, err := engine.Analyze(cmd.Context(), img, raw, colors)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := enc.Encode(analyzeLine{Path: path, Analysis: res}); err != nil {
			return err
		}
	}
	return nil
}
