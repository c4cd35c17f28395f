// Package agentcore implements the gateway to the upstream LLM-backed
// agents. Two agents are exposed: the Data Agent (customer and order data)
// and the Ticket Agent (eligibility, pricing, recommendations). Every call
// is a named MCP tool invocation normalized into an Envelope.
package agentcore

import "strings"

// Agent selects which upstream agent a tool call is routed to.
type Agent int

const (
	DataAgent Agent = iota
	TicketAgent
)

func (a Agent) String() string {
	if a == DataAgent {
		return "data-agent"
	}
	return "ticket-agent"
}

// Tool names exposed by the upstream agents.
const (
	ToolGetCustomer            = "get_customer"
	ToolGetTicketsForCustomer  = "get_tickets_for_customer"
	ToolCreateUpgradeOrder     = "create_upgrade_order"
	ToolValidateEligibility    = "validate_ticket_eligibility"
	ToolCalculatePricing       = "calculate_upgrade_pricing"
	ToolUpgradeRecommendations = "get_upgrade_recommendations"
	ToolTierComparison         = "get_upgrade_tier_comparison"
)

// Error message prefixes distinguish where a failure occurred. Callers use
// them to phrase retry guidance: transport failures are worth re-sending,
// tool failures usually need escalation.
const (
	transportErrPrefix = "agent transport: "
	toolErrPrefix      = "agent tool: "
	timeoutErrMsg      = "timeout"
)

// Envelope is the normalized result of every agent call. Data is opaque
// JSON whose shape depends on the tool invoked; callers go through the
// typed decoders in results.go rather than reading keys directly.
type Envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func transportFailure(msg string) Envelope {
	return Envelope{Success: false, Error: transportErrPrefix + msg}
}

func toolFailure(msg string) Envelope {
	return Envelope{Success: false, Error: toolErrPrefix + msg}
}

func timeoutFailure() Envelope {
	return Envelope{Success: false, Error: timeoutErrMsg}
}

// MalformedResult classifies an undecodable successful envelope as a
// transport failure. Callers fail closed instead of guessing at fields.
func MalformedResult(err error) Envelope {
	return transportFailure(err.Error())
}

// IsTransportError reports whether the envelope describes a transport-level
// failure (non-2xx HTTP, malformed response, network error).
func (e Envelope) IsTransportError() bool {
	return !e.Success && (strings.HasPrefix(e.Error, transportErrPrefix) || e.Error == timeoutErrMsg)
}

// IsToolError reports whether the envelope describes an error reported by
// the tool itself.
func (e Envelope) IsToolError() bool {
	return !e.Success && strings.HasPrefix(e.Error, toolErrPrefix)
}

// IsTimeout reports whether the call exceeded its deadline.
func (e Envelope) IsTimeout() bool {
	return !e.Success && e.Error == timeoutErrMsg
}

// Reason returns the error message with its classification prefix
// stripped, suitable for inclusion in user-facing text.
func (e Envelope) Reason() string {
	msg := strings.TrimPrefix(e.Error, transportErrPrefix)
	return strings.TrimPrefix(msg, toolErrPrefix)
}
