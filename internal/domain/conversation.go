// Package domain contains core domain types for the ticket upgrade service.
package domain

import "strings"

// HistoryLimit is the number of conversation turns replayed into agent
// context on each call (3 exchanges).
const HistoryLimit = 6

// TurnRole identifies who produced a conversation turn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn is a single message in the chat history, oldest first.
type ConversationTurn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// RecentTurns returns the last n turns of the history.
func RecentTurns(history []ConversationTurn, n int) []ConversationTurn {
	if n >= len(history) {
		return history
	}
	return history[len(history)-n:]
}

// ConversationContext is the client-held state echoed back on every chat
// turn. There is no server-side session store; the client is the source of
// truth for continuity between turns.
type ConversationContext struct {
	TicketID          string          `json:"ticketId,omitempty"`
	HasTicketInfo     bool            `json:"hasTicketInfo"`
	HasUpgradeOptions bool            `json:"hasUpgradeOptions"`
	SelectedUpgrade   *UpgradeOption  `json:"selectedUpgrade,omitempty"`
	UpgradeOptions    []UpgradeOption `json:"upgradeOptions,omitempty"`
}

// UpgradeOption is a named, priced enhancement to an existing ticket.
// Immutable value type; options are matched against free text by name.
type UpgradeOption struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Features    []string `json:"features"`
	Description string   `json:"description,omitempty"`
}

// MatchesText reports whether the option name appears in the message,
// case-insensitively.
func (o UpgradeOption) MatchesText(message string) bool {
	return strings.Contains(strings.ToLower(message), strings.ToLower(o.Name))
}
