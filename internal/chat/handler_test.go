package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/milan9527/agentticket-sub002/internal/agentcore"
	"github.com/milan9527/agentticket-sub002/internal/domain"
)

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleChat(w, req)
	return w
}

func TestHandleChatMissingMessage(t *testing.T) {
	h := NewHandler(NewService(&fakeGateway{}, 0, nil), nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty body object", `{}`},
		{"blank message", `{"message": "   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postChat(t, h, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp["error"] != "Message is required" {
				t.Errorf("error = %q", resp["error"])
			}
		})
	}
}

func TestHandleChatInvalidBody(t *testing.T) {
	h := NewHandler(NewService(&fakeGateway{}, 0, nil), nil)

	w := postChat(t, h, `{{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleChatUpstreamFailureStaysHTTP200(t *testing.T) {
	gw := &fakeGateway{
		validateEnv: agentcore.Envelope{Success: false, Error: "timeout"},
	}
	h := NewHandler(NewService(gw, 0, nil), nil)

	w := postChat(t, h, `{"message": "`+testTicketID+`"}`)

	// A chat-level failure is not a transport failure; the apology rides a
	// normal response.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if !strings.Contains(resp.Response, "longer than expected") {
		t.Errorf("response = %q, want timeout apology", resp.Response)
	}
}

func TestHandleChatRoundTrip(t *testing.T) {
	gw := &fakeGateway{validateEnv: eligibleEnvelope()}
	h := NewHandler(NewService(gw, 0, nil), nil)

	w := postChat(t, h, `{"message": "`+testTicketID+`", "context": {}, "conversationHistory": []}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success            bool                       `json:"success"`
		Response           string                     `json:"response"`
		ShowUpgradeButtons bool                       `json:"showUpgradeButtons"`
		UpgradeOptions     []domain.UpgradeOption     `json:"upgradeOptions"`
		Context            domain.ConversationContext `json:"context"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !resp.ShowUpgradeButtons {
		t.Errorf("response flags = %+v", resp)
	}
	if resp.Context.TicketID != testTicketID || !resp.Context.HasTicketInfo {
		t.Errorf("context = %+v", resp.Context)
	}
	if len(resp.UpgradeOptions) != 3 {
		t.Errorf("upgradeOptions = %d, want 3", len(resp.UpgradeOptions))
	}
}
