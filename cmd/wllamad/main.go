// wllamad serves the multimodal inference core over HTTP. Requests arrive as
// named messages on a single endpoint and every message produces exactly one
// response.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lxe/wllama"
	"github.com/lxe/wllama/foundation/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := cobra.Command{
		Use:           "wllamad",
		Short:         "Multimodal inference service over llamacpp",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the TOML config file")

	return &cmd
}

func run(configPath string) error {
	cfg := defaultConfig()

	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	if err := wllama.Init(cfg.LibPath, wllama.LogSilent); err != nil {
		return fmt.Errorf("run: backend init: %w", err)
	}

	eng, err := wllama.New(wllama.Config{
		Log:           log.Info,
		ContextWindow: cfg.ContextWindow,
		NBatch:        cfg.NBatch,
	})
	if err != nil {
		return fmt.Errorf("run: constructing engine: %w", err)
	}

	if cfg.ModelFile != "" {
		if err := eng.LoadModel(ctx, cfg.ModelFile); err != nil {
			return fmt.Errorf("run: loading model: %w", err)
		}

		defer func() {
			if err := eng.Unload(context.Background()); err != nil {
				log.Error(ctx, "run", "status", "unload failed", "error", err)
			}
		}()
	}

	srv := http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(log, eng.Dispatcher(), cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(ctx, "run", "status", "listening", "addr", cfg.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run: server error: %w", err)
		}

	case sig := <-shutdown:
		log.Info(ctx, "run", "status", "shutdown started", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("run: could not stop server gracefully: %w", err)
		}
	}

	return nil
}
