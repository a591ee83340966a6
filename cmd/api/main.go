package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nmoreira/supportchat/internal/config"
	"github.com/nmoreira/supportchat/internal/handler"
	chathandler "github.com/nmoreira/supportchat/internal/handler/chat"
	"github.com/nmoreira/supportchat/internal/logging"
	knowledgemodel "github.com/nmoreira/supportchat/internal/model/knowledge"
	knowledgeservice "github.com/nmoreira/supportchat/internal/service/knowledge"
	"github.com/nmoreira/supportchat/internal/service/ollama"
	"github.com/nmoreira/supportchat/internal/service/responder"
	"github.com/nmoreira/supportchat/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger starts at info until the configured level is known.
	log := logging.New(nil, "info")

	if err := godotenv.Load(); err != nil {
		// Not fatal: the system environment may carry everything needed.
		log.Warn().Err(err).Msg("no .env file loaded, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log = logging.New(nil, cfg.Log.Level)

	doc, err := knowledgemodel.Load(cfg.Knowledge.Path)
	if err != nil {
		// Degrades to an empty document; logged once, never per-request.
		log.Warn().Err(err).Str("path", cfg.Knowledge.Path).Msg("knowledge base unavailable, continuing without it")
	}
	retriever := knowledgeservice.NewRetriever(doc)

	store := session.NewStore()
	client := ollama.New(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout)
	responderSvc := responder.NewService(store, retriever, client, cfg.CompanyName, log.Sub("responder"))

	sweeper := session.NewSweeper(store, cfg.Session.SweepInterval, cfg.Session.TTL, log.Sub("sweeper"))
	go sweeper.Run(ctx)

	chatHandler := chathandler.New(responderSvc, store, client, log.Sub("chat"))
	wsHandler := chathandler.NewWSHandler(responderSvc, store, log.Sub("ws"))
	router := handler.NewRouter(chatHandler, wsHandler, log)

	log.Info().
		Str("addr", cfg.Server.Addr).
		Str("model", cfg.Ollama.Model).
		Dur("session_ttl", cfg.Session.TTL).
		Msg("support chat backend listening")

	if err := runServer(ctx, cfg.Server.Addr, router); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
