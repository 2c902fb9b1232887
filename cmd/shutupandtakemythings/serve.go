package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/martomarzo/shutupandtakemythings/internal/api"
	"github.com/martomarzo/shutupandtakemythings/internal/auth"
	"github.com/martomarzo/shutupandtakemythings/internal/catalog"
	"github.com/martomarzo/shutupandtakemythings/internal/config"
	"github.com/martomarzo/shutupandtakemythings/internal/db"
	"github.com/martomarzo/shutupandtakemythings/internal/notify"
	"github.com/martomarzo/shutupandtakemythings/internal/store"
	"github.com/martomarzo/shutupandtakemythings/internal/upload"
	"github.com/martomarzo/shutupandtakemythings/internal/web"
)

// defaultAdminPassword is the bootstrap password used when ADMIN_PASSWORD is unset.
const defaultAdminPassword = "admin123"

func newServeCmd(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Addr()
			}
			return serve(cmd.Context(), cfg, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from PORT, :3000)")
	cmd.Flags().StringVarP(&cfg.DBPath, "db", "d", cfg.DBPath, "SQLite database path")
	cmd.Flags().StringVarP(&cfg.UploadDir, "uploads", "u", cfg.UploadDir, "directory for uploaded images")
	cmd.Flags().StringVarP(&cfg.LogPath, "log", "l", cfg.LogPath, "log file path (default: stdout/stderr only)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, addr string) error {
	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	secret := cfg.JWTSecret
	if secret == "" {
		if secret, err = store.GetJWTSecret(ctx, database); err != nil {
			return err
		}
	}

	authSvc := &auth.Service{DB: database, Secret: secret}
	created, err := authSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return err
	}
	if created {
		slog.Info("admin account created", "user", cfg.Admin.Username)
		if cfg.Admin.Password == defaultAdminPassword {
			slog.Warn("admin account uses the default password, change it after logging in", "user", cfg.Admin.Username)
		}
	}

	uploads, err := upload.NewStore(cfg.UploadDir, cfg.MaxUploadBytes())
	if err != nil {
		return err
	}
	slog.Info("upload directory ready", "path", uploads.Dir(), "max_bytes", uploads.MaxSize())

	items := &catalog.Service{DB: database, Uploads: uploads}
	notifier := &notify.Notifier{
		URL:            cfg.Notify.URL,
		Token:          cfg.Notify.Token,
		NtfyURL:        cfg.Notify.NtfyURL,
		WhatsAppNumber: cfg.Notify.WhatsAppNumber,
		Client:         &http.Client{Timeout: 10 * time.Second},
	}
	if notifier.URL == "" {
		slog.Warn("NOTIFY_URL not set, buyer messages will be rejected")
	}

	webRouter, err := web.NewRouter(uploads)
	if err != nil {
		return err
	}

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(authSvc, items, notifier))
	mux.Handle("/", webRouter)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	handler := alice.New(api.RecoverMiddleware, api.LoggingMiddleware, api.SecureHeaders, c.Handler).Then(mux)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}

	slog.Info("server stopped, closing database")
	return nil
}
