package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	persistlog "kitchencrew.ai/internal/persistence/log"
	"kitchencrew.ai/internal/transport/ws"
)

var (
	serveAddr  string
	serveTrace bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the executor to an external game over websocket",
	Long: `serve listens for game connections on /v1/ws. Each connection says HELLO,
streams OBS frames and receives one ACT per frame from its own controller.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().BoolVar(&serveTrace, "trace", true, "Write controller decisions to <data>/serve/trace")
}

func runServe(cmd *cobra.Command, args []string) error {
	cats, tune, err := loadStack()
	if err != nil {
		return err
	}
	idx, err := openIndex(cats, tune)
	if err != nil {
		return err
	}
	if idx != nil {
		defer idx.Close()
	}

	cfg := ws.Config{
		Logger:    logger,
		Catalogs:  cats,
		Tuning:    tune,
		LevelsDir: filepath.Join(configDir, "levels"),
		Index:     idx,
	}
	if serveTrace {
		tl := persistlog.NewTraceLogger(filepath.Join(dataDir, "serve"))
		defer tl.Close()
		cfg.Tracer = tl
	}
	wsSrv := ws.NewServer(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", wsSrv.Handler())

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", serveAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if werr := wsSrv.Shutdown(shutdownCtx); err == nil {
			err = werr
		}
		logger.Info("server stopped")
		return err
	})
	return g.Wait()
}
