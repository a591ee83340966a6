package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nmoreira/supportchat/internal/logging"
	"github.com/nmoreira/supportchat/internal/model/chat"
	"github.com/nmoreira/supportchat/internal/service/ollama"
	"github.com/nmoreira/supportchat/internal/service/responder"
	"github.com/nmoreira/supportchat/internal/service/session"
	"github.com/nmoreira/supportchat/pkg/utils"
)

// ModelLister exposes the collaborator's model inventory.
type ModelLister interface {
	ModelName() string
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// Handler serves the chat HTTP API.
type Handler struct {
	responder *responder.Service
	store     *session.Store
	models    ModelLister
	log       *logging.Logger
}

// New creates the chat handler.
func New(responderSvc *responder.Service, store *session.Store, models ModelLister, log *logging.Logger) *Handler {
	return &Handler{
		responder: responderSvc,
		store:     store,
		models:    models,
		log:       log,
	}
}

// RegisterRoutes mounts the chat routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/history", h.handleHistory)
	r.Post("/clear", h.handleClear)
	r.Post("/session", h.handleCreateSession)
	r.Delete("/session", h.handleDeleteSession)
	r.Get("/models", h.handleModels)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message          string `json:"message"`
		SessionID        string `json:"session_id"`
		UseKnowledgeBase *bool  `json:"use_knowledge_base"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	useKnowledge := true
	if payload.UseKnowledgeBase != nil {
		useKnowledge = *payload.UseKnowledgeBase
	}

	reply, err := h.responder.Generate(r.Context(), payload.Message, payload.SessionID, useKnowledge)
	if err != nil {
		if errors.Is(err, responder.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, "Mensaje vacío")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	turns := h.store.History(sessionID)
	if turns == nil {
		turns = []chat.Turn{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Turn{"history": turns})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.store.Clear(payload.SessionID) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Historial limpiado correctamente"})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.store.Create()
	h.log.Debug().Str("session", id).Msg("session created")
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.store.Delete(payload.SessionID) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.models.ListModels(r.Context())
	if err != nil {
		// The original surfaced an empty list when the collaborator was
		// unreachable; keep that contract.
		h.log.Warn().Err(err).Msg("failed to list models")
		models = []ollama.ModelInfo{}
	}
	if models == nil {
		models = []ollama.ModelInfo{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"model":  h.models.ModelName(),
		"models": models,
	})
}
