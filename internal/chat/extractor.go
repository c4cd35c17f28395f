package chat

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/milan9527/agentticket-sub002/internal/domain"
)

// ticketIDPattern matches the 8-4-4-4-12 hex identifier shape used for
// ticket IDs. Candidates are confirmed with uuid.Parse before use.
var ticketIDPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// Signals are the structured facts extracted from a single chat message.
type Signals struct {
	// TicketID is a ticket identifier found in the message text. When
	// present it takes precedence over any ticket already in context: the
	// message is authoritative for this turn.
	TicketID string

	// Intents are all matched intent categories, in table order.
	Intents []Intent

	// SelectedUpgrade is the catalog option whose name appears in the
	// message, resolved only when the context says options were offered.
	SelectedUpgrade *domain.UpgradeOption
}

// HasIntent reports whether the given intent was detected.
func (s Signals) HasIntent(intent Intent) bool {
	for _, i := range s.Intents {
		if i == intent {
			return true
		}
	}
	return false
}

// Extractor derives Signals from message text. Pure function of its
// inputs; no side effects.
type Extractor struct {
	keywords *KeywordTable
}

// NewExtractor creates an Extractor with the given keyword table, or the
// default table if nil.
func NewExtractor(keywords *KeywordTable) *Extractor {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &Extractor{keywords: keywords}
}

// Extract inspects the message and context and returns the detected
// signals. The catalog lists the options previously offered to the user;
// selection detection only runs when the context says options are on the
// table.
func (e *Extractor) Extract(message string, convCtx domain.ConversationContext, catalog []domain.UpgradeOption) Signals {
	signals := Signals{
		TicketID: extractTicketID(message),
		Intents:  e.keywords.Detect(message),
	}

	if convCtx.HasUpgradeOptions {
		signals.SelectedUpgrade = matchSelection(message, catalog)
	}
	return signals
}

// extractTicketID returns the first well-formed ticket identifier in the
// message, canonicalized to lowercase. The same ticket maps to one
// identifier downstream no matter how the user typed it.
func extractTicketID(message string) string {
	for _, candidate := range ticketIDPattern.FindAllString(message, -1) {
		if _, err := uuid.Parse(candidate); err == nil {
			return strings.ToLower(candidate)
		}
	}
	return ""
}

// matchSelection resolves the option the user named. When the message
// matches several option names, the longest name wins; ties resolve to
// catalog order. This keeps ambiguous messages like "standard or premium?"
// deterministic instead of falling back to an arbitrary record.
func matchSelection(message string, catalog []domain.UpgradeOption) *domain.UpgradeOption {
	var best *domain.UpgradeOption
	for i := range catalog {
		option := catalog[i]
		if !option.MatchesText(message) {
			continue
		}
		if best == nil || len(option.Name) > len(best.Name) {
			best = &catalog[i]
		}
	}
	return best
}
