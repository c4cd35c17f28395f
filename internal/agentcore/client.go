package agentcore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/milan9527/agentticket-sub002/internal/config"
)

// Gateway is the tool-call surface consumed by the chat service and the
// ticket/customer handlers. All failures are normalized into the envelope;
// a Gateway call never returns a Go error.
type Gateway interface {
	GetCustomer(ctx context.Context, customerID string) Envelope
	GetTicketsForCustomer(ctx context.Context, customerID string) Envelope
	CreateUpgradeOrder(ctx context.Context, customerID, ticketID, upgradeTier, travelDate string, totalAmount float64) Envelope
	ValidateTicketEligibility(ctx context.Context, ticketID, upgradeTier string) Envelope
	CalculateUpgradePricing(ctx context.Context, ticketID, upgradeTier, travelDate string) Envelope
	GetUpgradeRecommendations(ctx context.Context, customerID, ticketID string) Envelope
	GetUpgradeTierComparison(ctx context.Context, ticketID string) Envelope
}

// Client calls agent tools over HTTP. Responses may arrive as a single
// JSON object or as an SSE-framed stream; both are handled.
type Client struct {
	cfg    config.AgentConfig
	creds  CredentialSource
	http   *http.Client
	logger *slog.Logger
	nextID atomic.Int64
}

var _ Gateway = (*Client)(nil)

// NewClient creates a gateway client for the configured agent endpoints.
func NewClient(cfg config.AgentConfig, creds CredentialSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:   cfg,
		creds: creds,
		// Per-call deadlines come from the context; the transport itself
		// has no timeout so SSE bodies are not cut off mid-stream.
		http:   &http.Client{},
		logger: logger,
	}
}

func (c *Client) endpoint(agent Agent) string {
	if agent == DataAgent {
		return c.cfg.DataAgentURL
	}
	return c.cfg.TicketAgentURL
}

// CallTool invokes a named tool on the given agent and normalizes the
// result. The call is bounded by the configured timeout in addition to any
// deadline already on ctx.
func (c *Client) CallTool(ctx context.Context, agent Agent, tool string, args map[string]any) Envelope {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	env := c.callOnce(ctx, agent, tool, args, true)
	c.logger.Debug("agent tool call",
		"agent", agent.String(),
		"tool", tool,
		"success", env.Success,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if !env.Success {
		c.logger.Warn("agent tool call failed", "agent", agent.String(), "tool", tool, "error", env.Error)
	}
	return env
}

// callOnce performs a single tool invocation. On a 401 the cached
// credential is invalidated and the call retried exactly once with a fresh
// token; a second 401 surfaces as failure.
func (c *Client) callOnce(ctx context.Context, agent Agent, tool string, args map[string]any, allowReauth bool) Envelope {
	token, err := c.creds.Token(ctx)
	if err != nil {
		if isDeadline(err) {
			return timeoutFailure()
		}
		return transportFailure("credential: " + err.Error())
	}

	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      c.nextID.Add(1),
		"method":  "tools/call",
		"params": map[string]any{
			"name":      tool,
			"arguments": args,
		},
	})
	if err != nil {
		return transportFailure("encode request: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(agent), bytes.NewReader(payload))
	if err != nil {
		return transportFailure("build request: " + err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		if isDeadline(err) {
			return timeoutFailure()
		}
		return transportFailure(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		if isDeadline(err) {
			return timeoutFailure()
		}
		return transportFailure("read response: " + err.Error())
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if allowReauth {
			c.creds.Invalidate(token)
			return c.callOnce(ctx, agent, tool, args, false)
		}
		return transportFailure("unauthorized after re-authentication")
	}
	if resp.StatusCode != http.StatusOK {
		return transportFailure(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	raw, err := extractJSON(body)
	if err != nil {
		return transportFailure(err.Error())
	}
	return normalizeRPC(raw)
}

// extractJSON returns the first JSON payload in the response body. SSE
// framed responses carry the payload on "data:" lines; anything else is
// treated as a plain JSON document.
func extractJSON(body []byte) (map[string]any, error) {
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "event:") || strings.HasPrefix(text, "data:") {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimRight(line, "\r")
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			candidate := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			var result map[string]any
			if err := json.Unmarshal([]byte(candidate), &result); err == nil {
				return result, nil
			}
		}
		return nil, errors.New("no JSON payload in event stream")
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("malformed response: %v", err)
	}
	return result, nil
}

// normalizeRPC maps a decoded JSON-RPC response onto the envelope. A
// JSON-RPC error object or an isError result is a tool failure; a missing
// result is a transport failure.
func normalizeRPC(raw map[string]any) Envelope {
	if errObj, ok := raw["error"].(map[string]any); ok {
		msg, _ := errObj["message"].(string)
		if msg == "" {
			msg = "internal error"
		}
		if code, ok := errObj["code"].(float64); ok {
			msg = fmt.Sprintf("%s (code %d)", msg, int(code))
		}
		return toolFailure(msg)
	}

	result, ok := raw["result"].(map[string]any)
	if !ok {
		// Some agents reply with the tool output at the top level.
		if _, hasOutput := raw["output"]; hasOutput || raw["jsonrpc"] == nil {
			return Envelope{Success: true, Data: raw}
		}
		return transportFailure("response has no result")
	}

	if isErr, _ := result["isError"].(bool); isErr {
		return toolFailure(firstContentText(result, "tool execution failed"))
	}

	// Prefer structured content; fall back to parsing the text content as
	// JSON, then to wrapping the raw text.
	if structured, ok := result["structuredContent"].(map[string]any); ok {
		return Envelope{Success: true, Data: structured}
	}
	text := firstContentText(result, "")
	if text != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(text), &parsed); err == nil {
			return Envelope{Success: true, Data: parsed}
		}
		return Envelope{Success: true, Data: map[string]any{"content": text}}
	}
	return Envelope{Success: true, Data: result}
}

func firstContentText(result map[string]any, fallback string) string {
	content, ok := result["content"].([]any)
	if !ok || len(content) == 0 {
		if s, ok := result["content"].(string); ok {
			return s
		}
		return fallback
	}
	first, ok := content[0].(map[string]any)
	if !ok {
		return fallback
	}
	if text, ok := first["text"].(string); ok {
		return text
	}
	return fallback
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), context.DeadlineExceeded.Error())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Data Agent tools.

func (c *Client) GetCustomer(ctx context.Context, customerID string) Envelope {
	return c.CallTool(ctx, DataAgent, ToolGetCustomer, map[string]any{
		"customer_id": customerID,
	})
}

func (c *Client) GetTicketsForCustomer(ctx context.Context, customerID string) Envelope {
	return c.CallTool(ctx, DataAgent, ToolGetTicketsForCustomer, map[string]any{
		"customer_id": customerID,
	})
}

func (c *Client) CreateUpgradeOrder(ctx context.Context, customerID, ticketID, upgradeTier, travelDate string, totalAmount float64) Envelope {
	return c.CallTool(ctx, DataAgent, ToolCreateUpgradeOrder, map[string]any{
		"customer_id":  customerID,
		"ticket_id":    ticketID,
		"upgrade_tier": upgradeTier,
		"travel_date":  travelDate,
		"total_amount": totalAmount,
	})
}

// Ticket Agent tools.

func (c *Client) ValidateTicketEligibility(ctx context.Context, ticketID, upgradeTier string) Envelope {
	return c.CallTool(ctx, TicketAgent, ToolValidateEligibility, map[string]any{
		"ticket_id":    ticketID,
		"upgrade_tier": upgradeTier,
	})
}

func (c *Client) CalculateUpgradePricing(ctx context.Context, ticketID, upgradeTier, travelDate string) Envelope {
	return c.CallTool(ctx, TicketAgent, ToolCalculatePricing, map[string]any{
		"ticket_id":    ticketID,
		"upgrade_tier": upgradeTier,
		"travel_date":  travelDate,
	})
}

func (c *Client) GetUpgradeRecommendations(ctx context.Context, customerID, ticketID string) Envelope {
	return c.CallTool(ctx, TicketAgent, ToolUpgradeRecommendations, map[string]any{
		"customer_id": customerID,
		"ticket_id":   ticketID,
	})
}

func (c *Client) GetUpgradeTierComparison(ctx context.Context, ticketID string) Envelope {
	return c.CallTool(ctx, TicketAgent, ToolTierComparison, map[string]any{
		"ticket_id": ticketID,
	})
}
