package chat

import "github.com/milan9527/agentticket-sub002/internal/domain"

// ActionKind tags the decision made for one conversation turn.
type ActionKind int

const (
	// ActionRespondDirectly answers from a local template without calling
	// an agent.
	ActionRespondDirectly ActionKind = iota
	// ActionAskForTicketID asks the user for their ticket identifier.
	ActionAskForTicketID
	// ActionCallValidate delegates to validate_ticket_eligibility.
	ActionCallValidate
	// ActionCallPricing delegates to calculate_upgrade_pricing.
	ActionCallPricing
	// ActionCallRecommendations delegates to get_upgrade_recommendations.
	ActionCallRecommendations
	// ActionCallTierComparison delegates to get_upgrade_tier_comparison.
	ActionCallTierComparison
	// ActionConfirmSelection confirms a resolved upgrade selection. No
	// order is created here; order creation is a separate, explicit
	// endpoint, decoupling conversational confirmation from the
	// side-effecting transaction.
	ActionConfirmSelection
)

// Action is the tagged decision produced by Decide.
type Action struct {
	Kind       ActionKind
	TicketID   string
	Tier       string
	TravelDate string
	CustomerID string

	// Intent drives template choice for direct replies.
	Intent Intent

	// Selected is set for ActionConfirmSelection.
	Selected *domain.UpgradeOption
}

// defaultTier is used when the user has not yet named a target tier.
const defaultTier = "standard"

// Decide maps the extracted signals and prior context onto the next
// action. Conversation state is derived from context fields, not a stored
// enum:
//
//	NoTicket:               no ticket in context or this turn
//	TicketKnownNoOptions:   ticket known, catalog not yet offered
//	TicketKnownWithOptions: catalog offered, no selection yet
//	SelectionMade:          an offered option was named
func Decide(convCtx domain.ConversationContext, signals Signals, customerID string) Action {
	// Ticket-id presence always wins over intent: validation establishes
	// eligibility and current tier, which every other branch depends on.
	if signals.TicketID != "" {
		return Action{
			Kind:     ActionCallValidate,
			TicketID: signals.TicketID,
			Tier:     selectedTierOrDefault(signals),
		}
	}

	ticketKnown := convCtx.TicketID != ""

	if convCtx.HasUpgradeOptions {
		// Pricing questions outrank a name match: "how much is the VIP
		// Package" is a price inquiry, not a selection.
		if signals.HasIntent(IntentPricingRequest) && ticketKnown {
			return Action{
				Kind:     ActionCallPricing,
				TicketID: convCtx.TicketID,
				Tier:     selectedTierOrDefault(signals),
			}
		}
		if signals.SelectedUpgrade != nil {
			return Action{Kind: ActionConfirmSelection, Selected: signals.SelectedUpgrade}
		}
	}

	if !ticketKnown {
		if signals.HasIntent(IntentUpgradeRequest) || signals.HasIntent(IntentValidation) {
			return Action{Kind: ActionAskForTicketID}
		}
		return Action{Kind: ActionRespondDirectly, Intent: dominantIntent(signals)}
	}

	switch {
	case signals.HasIntent(IntentPricingRequest):
		return Action{
			Kind:     ActionCallPricing,
			TicketID: convCtx.TicketID,
			Tier:     selectedTierOrDefault(signals),
		}
	case signals.HasIntent(IntentRecommendation):
		return Action{
			Kind:       ActionCallRecommendations,
			TicketID:   convCtx.TicketID,
			CustomerID: customerID,
		}
	case signals.HasIntent(IntentComparison):
		return Action{Kind: ActionCallTierComparison, TicketID: convCtx.TicketID}
	case !convCtx.HasUpgradeOptions:
		// Ticket known but never validated in a prior turn; any further
		// conversation needs the eligibility result first.
		return Action{
			Kind:     ActionCallValidate,
			TicketID: convCtx.TicketID,
			Tier:     selectedTierOrDefault(signals),
		}
	case signals.HasIntent(IntentUpgradeRequest) || signals.HasIntent(IntentAffirmative):
		// Options already on the table and no selection made: list them
		// again rather than re-validating.
		return Action{Kind: ActionRespondDirectly, Intent: IntentUpgradeRequest}
	default:
		return Action{Kind: ActionRespondDirectly, Intent: dominantIntent(signals)}
	}
}

func selectedTierOrDefault(signals Signals) string {
	if signals.SelectedUpgrade != nil {
		return signals.SelectedUpgrade.ID
	}
	return defaultTier
}

// dominantIntent picks the intent that drives a direct reply. Detection
// order is significant: the table lists more specific categories first.
func dominantIntent(signals Signals) Intent {
	if len(signals.Intents) == 0 {
		return ""
	}
	return signals.Intents[0]
}
