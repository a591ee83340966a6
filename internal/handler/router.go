package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/nmoreira/supportchat/internal/handler/chat"
	"github.com/nmoreira/supportchat/internal/logging"
	"github.com/nmoreira/supportchat/internal/middleware"
)

// NewRouter wires HTTP routes to the core services.
func NewRouter(chatHandler *chathandler.Handler, wsHandler *chathandler.WSHandler, log *logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log.Sub("http")))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
