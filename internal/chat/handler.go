package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/milan9527/agentticket-sub002/internal/api"
	"github.com/milan9527/agentticket-sub002/internal/auth"
	"github.com/milan9527/agentticket-sub002/internal/domain"
)

// chatRequest is the body of POST /chat.
type chatRequest struct {
	Message             string                     `json:"message"`
	Context             domain.ConversationContext `json:"context"`
	ConversationHistory []domain.ConversationTurn  `json:"conversationHistory"`
}

// chatResponse is the body of a successful POST /chat. Agent failures are
// still success=true at the HTTP level; the failure lives in the reply text.
type chatResponse struct {
	Success            bool                       `json:"success"`
	Response           string                     `json:"response"`
	ShowUpgradeButtons bool                       `json:"showUpgradeButtons"`
	UpgradeOptions     []domain.UpgradeOption     `json:"upgradeOptions"`
	Context            domain.ConversationContext `json:"context"`
}

// Handler serves the chat endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a chat Handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the chat routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.HandleChat)
}

// HandleChat processes one chat turn.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.Error(w, http.StatusBadRequest, "Message is required")
		return
	}

	customerID := auth.CustomerIDFromContext(r.Context())

	result := h.svc.ProcessTurn(r.Context(), TurnRequest{
		Message:    req.Message,
		History:    req.ConversationHistory,
		Context:    req.Context,
		CustomerID: customerID,
	})

	api.JSON(w, http.StatusOK, chatResponse{
		Success:            true,
		Response:           result.Reply.Text,
		ShowUpgradeButtons: result.Reply.ShowUpgradeButtons,
		UpgradeOptions:     result.Reply.UpgradeOptions,
		Context:            result.Context,
	})
}
