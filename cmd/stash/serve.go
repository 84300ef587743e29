package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stash/config"
	stashhttp "github.com/sagarc03/stash/http"
	"github.com/sagarc03/stash/keybackend"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the stash HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8083, "HTTP server port (env: STASH_SERVER_PORT)")
	serveCmd.Flags().Int64("max-upload-size", 0, "upload size cap in bytes, 0 disables it (default: 10485760)")
	serveCmd.Flags().String("token-file", "", "file holding the upload bearer token (env: STASH_AUTH_TOKEN_FILE)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, closeStorage, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	verifier, usedDefault, err := keybackend.NewTokenVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("load upload token: %w", err)
	}
	if usedDefault {
		slog.Warn("no upload token configured, using the built-in default; set STASH_AUTH_TOKEN or auth.token_file")
	}

	handlerConfig := stashhttp.HandlerConfig{
		UploadVerifier: verifier,
		CORS:           cfg.CORS,
		PasteEnabled:   cfg.Paste.Enabled,
		Version:        version,
	}

	handler := stashhttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
	}()

	slog.Info("starting server",
		"addr", addr,
		"storage", cfg.Storage.Path,
		"max_upload_size", cfg.Server.MaxUploadSize,
		"paste", cfg.Paste.Enabled,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
