package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"github.com/milan9527/agentticket-sub002/internal/auth"
	"github.com/milan9527/agentticket-sub002/internal/domain"
)

// WebSocketHandler serves chat turns over a WebSocket connection. Each text
// frame carries one turn request and produces exactly one reply frame; the
// conversation context travels in the frames, never in server state.
type WebSocketHandler struct {
	svc           *Service
	allowedOrigin string
	isDev         bool
	logger        *slog.Logger
}

// NewWebSocketHandler creates a WebSocket chat handler.
func NewWebSocketHandler(svc *Service, allowedOrigin string, isDev bool, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		svc:           svc,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		logger:        logger,
	}
}

// wsTurn is one inbound chat frame.
type wsTurn struct {
	Message             string                     `json:"message"`
	Context             domain.ConversationContext `json:"context"`
	ConversationHistory []domain.ConversationTurn  `json:"conversationHistory"`
}

// wsReply is one outbound chat frame.
type wsReply struct {
	Type               string                      `json:"type"`
	Response           string                      `json:"response,omitempty"`
	ShowUpgradeButtons bool                        `json:"showUpgradeButtons,omitempty"`
	UpgradeOptions     []domain.UpgradeOption      `json:"upgradeOptions,omitempty"`
	Context            *domain.ConversationContext `json:"context,omitempty"`
	Error              string                      `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	customerID := auth.CustomerIDFromContext(r.Context())
	h.logger.Info("chat WebSocket connection", "customer_id", customerID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("failed to accept WebSocket", "error", err, "customer_id", customerID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "conversation ended"); closeErr != nil {
			h.logger.Debug("failed to close websocket", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.readLoop(ctx, ws, customerID)
	h.logger.Info("chat WebSocket session ended", "customer_id", customerID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	h.logger.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, customerID string) {
	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				h.logger.Debug("WebSocket closed by client", "customer_id", customerID)
			} else {
				h.logger.Warn("WebSocket read error", "error", err, "customer_id", customerID)
			}
			return
		}

		var turn wsTurn
		if err := json.Unmarshal(message, &turn); err != nil {
			h.writeReply(ctx, ws, wsReply{Type: "error", Error: "Invalid message format"})
			continue
		}
		if strings.TrimSpace(turn.Message) == "" {
			h.writeReply(ctx, ws, wsReply{Type: "error", Error: "Message is required"})
			continue
		}

		result := h.svc.ProcessTurn(ctx, TurnRequest{
			Message:    turn.Message,
			History:    turn.ConversationHistory,
			Context:    turn.Context,
			CustomerID: customerID,
		})

		nextCtx := result.Context
		h.writeReply(ctx, ws, wsReply{
			Type:               "response",
			Response:           result.Reply.Text,
			ShowUpgradeButtons: result.Reply.ShowUpgradeButtons,
			UpgradeOptions:     result.Reply.UpgradeOptions,
			Context:            &nextCtx,
		})
	}
}

func (h *WebSocketHandler) writeReply(ctx context.Context, ws *websocket.Conn, reply wsReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		h.logger.Error("failed to marshal reply", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		h.logger.Debug("WebSocket write error", "error", err)
	}
}
