package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"psp.com/xabiren-quiz/backend/internal/config"
	"psp.com/xabiren-quiz/backend/internal/logger"
	"psp.com/xabiren-quiz/backend/internal/questionbank"
	"psp.com/xabiren-quiz/backend/internal/web"
)

func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Mode, cfg.Log.File)
	err = run(cfg, log)
	if err != nil {
		log.Error("server stopped", zap.Error(err))
	}
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.Bank.FetchTimeout}
	bank, err := questionbank.Load(ctx, httpClient, cfg.Bank.Source)
	if err != nil {
		return err
	}
	if bank.IsEmpty() {
		log.Warn("question bank is empty; sessions cannot be started", zap.String("source", cfg.Bank.Source))
	}
	log.Info("question bank loaded",
		zap.String("source", cfg.Bank.Source),
		zap.Int("questions", bank.Len()),
		zap.Any("meta", bank.Meta()),
	)

	srv := web.New(bank, log, web.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxRequests:    cfg.RateLimit.MaxRequests,
		RateWindow:     cfg.RateLimit.Window(),
		SessionTTL:     cfg.Session.TTL,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.Server.TLSCert != "" {
			log.Info("backend listening (HTTPS)", zap.String("addr", httpSrv.Addr))
			errCh <- httpSrv.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
			return
		}
		log.Info("backend listening (HTTP)", zap.String("addr", httpSrv.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
