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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dalnet/ircengine/internal/chat"
	"github.com/dalnet/ircengine/internal/config"
	"github.com/dalnet/ircengine/internal/irc"
	"github.com/dalnet/ircengine/internal/storage"
)

var (
	configPath string
	transcript bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the configured server and relay stdin",
	Args:  cobra.NoArgs,
	RunE:  runConnect,
}

func init() {
	connectCmd.Flags().StringVarP(&configPath, "config", "c", "./config.yaml", "Path to configuration file (.yaml or .toml)")
	connectCmd.Flags().BoolVar(&transcript, "transcript", false, "Keep a transcript in the data directory")
}

func runConnect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	console := newConsole(cmd.OutOrStdout())
	models := chat.Tee{console}

	var tr *storage.Transcript
	if transcript {
		tr, err = storage.OpenTranscript(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open transcript: %w", err)
		}
		models = append(models, tr)
	}

	sys := irc.New(cfg, models, irc.WithLogger(logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting", zap.String("addr", cfg.Address()), zap.String("nick", cfg.Nick))
	if err := sys.Connect(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	// The session ends the group; everything else follows it down.
	sessionDone := make(chan struct{})
	g.Go(func() error {
		defer close(sessionDone)
		select {
		case <-sys.Done():
		case <-gctx.Done():
			logger.Info("shutting down")
			_ = sys.Quit("")
			select {
			case <-sys.Done():
			case <-time.After(5 * time.Second):
				_ = sys.Disconnect()
				<-sys.Done()
			}
		}
		return errSessionEnded
	})

	in := newCommander(sys, console)
	if tr != nil {
		if in.history, err = storage.LoadHistory(cfg.DataDir); err != nil {
			logger.Warn("failed to load history", zap.Error(err))
		}
	}
	g.Go(func() error {
		return in.run(gctx, cmd.InOrStdin(), sessionDone)
	})

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddr)
		})
	}

	err = g.Wait()
	if tr != nil {
		if serr := tr.Save(); serr != nil {
			logger.Error("failed to save transcript", zap.Error(serr))
		}
		if serr := storage.SaveHistory(cfg.DataDir, in.history); serr != nil {
			logger.Error("failed to save history", zap.Error(serr))
		}
	}
	if errors.Is(err, errSessionEnded) {
		return nil
	}
	return err
}

var errSessionEnded = errors.New("session ended")

// serveMetrics exposes the engine registry until ctx is done.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(irc.Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
