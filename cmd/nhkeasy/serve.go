package main

import (
	"github.com/basjacobs93/nhk-web-easy/internal/preview"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site locally",
		Long: `Serve runs a local HTTP server for the generated site so it can be
checked before publishing.

With --live-reload the server watches the output directory and pushes a
reload to connected browsers whenever the site is regenerated, so
'nhkeasy generate' in another terminal refreshes the open page.

Examples:
  # Serve the configured output directory on :8000
  nhkeasy serve

  # Serve on another port with live reload
  nhkeasy serve --addr :3000 --live-reload`,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", preview.DefaultAddr,
		"Listen address for the preview server")
	cmd.Flags().Bool("live-reload", false,
		"Reload connected browsers when the output directory changes")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	liveReload, err := cmd.Flags().GetBool("live-reload")
	if err != nil {
		return err
	}

	server, err := preview.NewServer(cfg.OutputDir,
		preview.WithAddr(addr),
		preview.WithLiveReload(liveReload),
		preview.WithPreviewLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	return server.Serve(ctx)
}
