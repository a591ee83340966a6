package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/nmoreira/supportchat/internal/logging"
	"github.com/nmoreira/supportchat/internal/service/responder"
	"github.com/nmoreira/supportchat/internal/service/session"
)

// WSHandler serves the websocket chat endpoint. Each connection gets its own
// session; exchanges are turn-by-turn, never streamed.
type WSHandler struct {
	responder *responder.Service
	store     *session.Store
	upgrader  websocket.Upgrader
	log       *logging.Logger
}

// NewWSHandler creates the websocket chat handler.
func NewWSHandler(responderSvc *responder.Service, store *session.Store, log *logging.Logger) *WSHandler {
	return &WSHandler{
		responder: responderSvc,
		store:     store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// RegisterRoutes mounts the websocket route on the given router.
func (h *WSHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type wsInbound struct {
	Message          string `json:"message"`
	UseKnowledgeBase *bool  `json:"use_knowledge_base"`
}

type wsError struct {
	Error string `json:"error"`
}

func (h *WSHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := h.store.Create()
	h.log.Debug().Str("session", sessionID).Msg("websocket session opened")

	// Tell the client its session id up front so it can resume over HTTP.
	if err := conn.WriteJSON(map[string]string{"session_id": sessionID}); err != nil {
		return
	}

	for {
		var msg wsInbound
		if err := conn.ReadJSON(&msg); err != nil {
			h.log.Debug().Str("session", sessionID).Err(err).Msg("websocket closed")
			return
		}

		useKnowledge := true
		if msg.UseKnowledgeBase != nil {
			useKnowledge = *msg.UseKnowledgeBase
		}

		reply, err := h.responder.Generate(r.Context(), msg.Message, sessionID, useKnowledge)
		if err != nil {
			if writeErr := conn.WriteJSON(wsError{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}
		sessionID = reply.SessionID

		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
