package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
)

type renderOptions struct {
	record  string
	out     string
	quality int
	preview int
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render <photo>",
		Short: "Apply an adjustment record to a photo and write a JPEG",
		Long: `Apply an adjustment record (the JSON persisted for drafts) to a photo and
write the result as a JPEG no larger than max_compressed_bytes.

The record is read from --record, or from stdin when --record is "-". Without
a record the photo is re-encoded unchanged. --preview renders the quick
preview path at the given size instead of the full-resolution final render.`,
		Example: `  photo-mcp render beach.jpg --record edit.json --out beach-edit.jpg
  echo '{"adjustments":{"warmth":0.4},"filter":"vivid"}' | photo-mcp render beach.jpg --record -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.record, "record", "r", "", `adjustment record JSON file, "-" for stdin`)
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output path (default <photo>-edit.jpg)")
	cmd.Flags().IntVarP(&opts.quality, "quality", "q", 0, "JPEG quality 1-100 (default export_quality)")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "render a preview no larger than this many pixels")
	return cmd
}

func (a *app) render(cmd *cobra.Command, path string, opts renderOptions) error {
	settings, err := readRecord(cmd.InOrStdin(), opts.record)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}
	src, err := imaging.DecodeSource(raw, a.cfg.MaxInputDim)
	if err != nil {
		return err
	}

	engine := a.newEngine()
	var img image.Image
	if opts.preview > 0 {
		img, err = imaging.GeneratePreview(cmd.Context(), src, settings, imaging.Square(opts.preview))
	} else {
		img, err = engine.RenderFinal(cmd.Context(), src, settings)
	}
	if err != nil {
		return err
	}

	c, err := engine.Compress(img, opts.quality)
	if err != nil {
		return err
	}
	dst := opts.out
	if dst == "" {
		dst = strings.TrimSuffix(path, filepath.Ext(path)) + "-edit.jpg"
	}
	if err := os.WriteFile(dst, c.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, quality %d, %s\n",
		dst, c.Width, c.Height, c.Quality, humanize.IBytes(uint64(len(c.Data))))
	return nil
}

// readRecord loads settings from a record file, stdin for "-", or returns
// identity settings when name is empty.
func readRecord(stdin io.Reader, name string) (adjust.Settings, error) {
	if name == "" {
		return adjust.New(), nil
	}

	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return adjust.Settings{}, fmt.Errorf("failed to read record: %w", err)
	}

	var rec adjust.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return adjust.Settings{}, errs.Validation("record", err.Error())
	}
	return adjust.FromRecord(rec)
}
