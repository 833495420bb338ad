package session

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// GenerateFinalImages renders every source at full resolution with the
// current settings. Renders run concurrently, bounded by the worker limit,
// and the results keep source order. The first failure cancels the rest.
func (s *Session) GenerateFinalImages(ctx context.Context) ([]image.Image, error) {
	var out []image.Image
	err := s.renderFinals(ctx, func(n int) { out = make([]image.Image, n) }, func(i int, img image.Image) error {
		out[i] = img
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Export renders and encodes every source, in source order.
func (s *Session) Export(ctx context.Context, quality int) ([][]byte, error) {
	var out [][]byte
	err := s.renderFinals(ctx, func(n int) { out = make([][]byte, n) }, func(i int, img image.Image) error {
		data, err := s.renderer.Encode(img, quality)
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
		out[i] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// renderFinals snapshots the session, calls alloc with the source count and
// then each concurrently with a distinct index. The render context is
// cancelled when ctx is, or when the session ends.
func (s *Session) renderFinals(ctx context.Context, alloc func(n int), each func(i int, img image.Image) error) error {
	s.mu.Lock()
	if err := s.requireEditing("final_render"); err != nil {
		s.mu.Unlock()
		return err
	}
	sources := append([]Source(nil), s.sources...)
	snapshot := s.settings.Clone()
	base := s.baseCtx
	s.finalizeRenders++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.finalizeRenders--
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(base, cancel)
	defer stop()

	alloc(len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, src := range sources {
		g.Go(func() error {
			img, err := s.renderer.RenderFinal(gctx, src.Image, snapshot)
			if err != nil {
				return err
			}
			return each(i, img)
		})
	}
	if err := g.Wait(); err != nil {
		if isCancelled(err) && !errs.Is(err, errs.KindProcessing) {
			return errs.Processing("final_render", "cancelled", err)
		}
		return err
	}
	s.logger.Debug("final render complete", "images", len(sources), "workers", s.workers)
	return nil
}
