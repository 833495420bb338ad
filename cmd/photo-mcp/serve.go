package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-tools-mcp/internal/drafts"
	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
	"github.com/ironsheep/photo-tools-mcp/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout (default)",
		Long: `Serve the photo tools over the MCP protocol on stdin/stdout.

Logs are written to stderr. Drafts are kept in the SQLite database named by
drafts_path (PHOTO_MCP_DRAFTS).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
}

func (a *app) serve(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := drafts.Open(a.cfg.DraftsPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("failed to close drafts", "err", err)
		}
	}()

	srv := server.New(
		a.newEngine(),
		imaging.NewImageCache(a.cfg.MaxInputDim),
		server.WithLogger(a.logger),
		server.WithDraftStore(store),
		server.WithWorkers(a.cfg.FinalWorkers),
		server.WithDominantColors(a.cfg.DominantColors),
		server.WithVersion(Version),
	)

	a.logger.Info("serving", "version", Version, "commit", GitCommit, "drafts", a.cfg.DraftsPath)
	if err := srv.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && err != context.Canceled {
		return fmt.Errorf("server error: %w", err)
	}
	a.logger.Debug("server stopped")
	return nil
}
