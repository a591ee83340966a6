package responder

import (
	"context"
	"errors"
	"fmt"

	"github.com/nmoreira/supportchat/internal/logging"
	"github.com/nmoreira/supportchat/internal/model/chat"
	"github.com/nmoreira/supportchat/internal/service/knowledge"
	"github.com/nmoreira/supportchat/internal/service/session"
)

// ErrEmptyMessage rejects a request carrying no user text.
var ErrEmptyMessage = errors.New("mensaje vacío")

// Generator is the inference collaborator contract.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reply is the successful outcome of one generate call. SessionID is the
// session actually written to, which may differ from what the caller passed.
type Reply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Service composes prompts from knowledge and history, invokes the
// collaborator, and records both sides of the exchange.
type Service struct {
	store       *session.Store
	retriever   *knowledge.Retriever
	gen         Generator
	companyName string
	log         *logging.Logger
}

// NewService wires the response generator. companyName is the fallback
// identity when the knowledge document has no title.
func NewService(store *session.Store, retriever *knowledge.Retriever, gen Generator, companyName string, log *logging.Logger) *Service {
	return &Service{
		store:       store,
		retriever:   retriever,
		gen:         gen,
		companyName: companyName,
		log:         log,
	}
}

// Generate answers one user message within a session. An unknown or empty
// sessionID is healed by creating a fresh session; the effective id comes
// back in the Reply.
//
// The user turn is recorded before the collaborator call and is not rolled
// back on failure, so a failed call leaves a user-only turn in the history.
// That asymmetry is inherited behavior, kept so the user's input survives
// collaborator outages.
func (s *Service) Generate(ctx context.Context, message, sessionID string, useKnowledge bool) (Reply, error) {
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	sessionID, created := s.store.Append(sessionID, chat.RoleUser, message)
	if created {
		s.log.Debug().Str("session", sessionID).Msg("session created for message")
	}

	historyBlock := renderHistory(s.store.History(sessionID))

	knowledgeBlock := ""
	if useKnowledge {
		if block := s.retriever.FormatForContext(message); block != "" {
			knowledgeBlock = "Información de la base de conocimientos:\n" + block + "\n\n"
		}
	}

	company := s.companyName
	if knowledgeBlock != "" {
		if name := s.retriever.CompanyName(); name != "" {
			company = name
		}
	}

	prompt := buildPrompt(company, knowledgeBlock, historyBlock, message)

	response, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Str("session", sessionID).Msg("collaborator call failed")
		return Reply{}, fmt.Errorf("generate response: %w", err)
	}

	s.store.Append(sessionID, chat.RoleAssistant, response)
	return Reply{Response: response, SessionID: sessionID}, nil
}
