package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driven/classifier/anthropic"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driven/config/file"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driving/httpserver"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the redaction API server",
	Long: `Starts the HTTP server exposing POST /api/redact, which forwards the
submitted text to the generative-AI classifier. The API key is read
from REDACTOR_API_KEY (or ANTHROPIC_API_KEY); the server refuses to
start without one.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := httpserver.LoadConfig()
	if err != nil {
		return err
	}

	model := cfg.Model
	if model == "" {
		if store, storeErr := openConfigStore(); storeErr == nil {
			model = store.GetString(driven.ConfigKeyModel)
		}
	}

	classifier, err := anthropic.New(anthropic.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   model,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		return err
	}

	var promptDir string
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	if prompts, promptErr := file.NewPromptStore(promptDir); promptErr == nil {
		classifier.SetPromptStore(prompts)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := classifier.Ping(pingCtx); err != nil {
		slog.Warn("upstream API not reachable at startup", "err", err)
	}
	cancel()

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)
	}

	mux := http.NewServeMux()
	httpserver.NewHandler(classifier, limiter).Register(mux)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)

		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Error("shutdown error", "err", err)
		}
	}()

	slog.Info("starting redaction API server",
		"addr", cfg.ListenAddr,
		"model", classifier.ModelName(),
		"rate_limit", cfg.RatePerSecond,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
