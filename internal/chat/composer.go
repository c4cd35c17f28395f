package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milan9527/agentticket-sub002/internal/agentcore"
	"github.com/milan9527/agentticket-sub002/internal/domain"
)

// longFormThreshold is the content length above which an agent's textual
// result is treated as the authoritative LLM-composed answer and surfaced
// verbatim.
const longFormThreshold = 1000

// Reply is the user-facing result of one chat turn.
type Reply struct {
	Text               string                 `json:"response"`
	ShowUpgradeButtons bool                   `json:"showUpgradeButtons"`
	UpgradeOptions     []domain.UpgradeOption `json:"upgradeOptions"`
}

// Composer maps action results onto user-facing replies. Deterministic:
// the same inputs always produce byte-identical output.
type Composer struct {
	catalog []domain.UpgradeOption
}

// NewComposer creates a Composer offering the given option catalog, or the
// default catalog if nil.
func NewComposer(catalog []domain.UpgradeOption) *Composer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Composer{catalog: catalog}
}

// Catalog returns the options the composer offers.
func (c *Composer) Catalog() []domain.UpgradeOption {
	return c.catalog
}

// AskForTicketID asks the user for their ticket identifier.
func (c *Composer) AskForTicketID() Reply {
	return Reply{
		Text: "I'd be happy to help you explore upgrade options! To provide accurate " +
			"pricing and availability, I'll need your ticket information first. Could you " +
			"please share your ticket ID? It should look like " +
			"'550e8400-e29b-41d4-a716-446655440002'.",
		UpgradeOptions: []domain.UpgradeOption{},
	}
}

// Direct answers from a fixed template for the given intent without any
// agent involvement.
func (c *Composer) Direct(intent Intent, convCtx domain.ConversationContext) Reply {
	options := convCtx.UpgradeOptions
	if len(options) == 0 {
		options = c.catalog
	}
	// Buttons only appear once a successful validation has occurred and no
	// selection has been made yet.
	canShow := convCtx.HasUpgradeOptions && convCtx.SelectedUpgrade == nil

	switch intent {
	case IntentGreeting:
		return Reply{
			Text: "Hello! I'm your ticket assistant. I can help you explore upgrade " +
				"options, check pricing, and enhance your ticket experience. What can I " +
				"help you with today?",
			UpgradeOptions: []domain.UpgradeOption{},
		}
	case IntentUpgradeRequest, IntentAffirmative, IntentComparison:
		if canShow {
			return Reply{
				Text:               "Here are the upgrade options available for your ticket:\n" + formatOptions(options),
				ShowUpgradeButtons: true,
				UpgradeOptions:     options,
			}
		}
		return Reply{
			Text: "We have several upgrade tiers available that can enhance your " +
				"experience. Share your ticket ID and I can check which ones your ticket " +
				"qualifies for.",
			UpgradeOptions: []domain.UpgradeOption{},
		}
	case IntentPricingRequest:
		return Reply{
			Text: "Upgrade costs vary by tier, ranging from $50 for our Standard Upgrade " +
				"to $300 for the VIP Package. Share your ticket ID and I can give you exact " +
				"pricing for your ticket.",
			UpgradeOptions: []domain.UpgradeOption{},
		}
	case IntentFeatures:
		return Reply{
			Text: "Each upgrade tier includes different benefits. The Standard Upgrade " +
				"adds priority boarding and extra legroom, while the VIP Package includes " +
				"exclusive merchandise, a meet and greet, and backstage access. Would you " +
				"like the complete breakdown of what each tier includes?",
			ShowUpgradeButtons: canShow,
			UpgradeOptions:     buttonsOrEmpty(canShow, options),
		}
	case IntentTicketInquiry:
		return Reply{
			Text: "I can help you with your ticket! To look up specific details, could " +
				"you share your ticket ID?",
			UpgradeOptions: []domain.UpgradeOption{},
		}
	case IntentHelp:
		return Reply{
			Text: "I'm here to help with ticket upgrades! I can show you available " +
				"upgrade options, explain pricing and features, and guide you through the " +
				"upgrade process. What would you like to know more about?",
			UpgradeOptions: []domain.UpgradeOption{},
		}
	case IntentNegative:
		return Reply{
			Text: "No problem at all! I'm here whenever you're ready. If you have any " +
				"questions about your ticket or potential upgrades, just let me know.",
			UpgradeOptions: []domain.UpgradeOption{},
		}
	default:
		return Reply{
			Text: "I'm here to help you explore upgrade options that can enhance your " +
				"ticket experience. What specific aspect of upgrading interests you most?",
			UpgradeOptions: []domain.UpgradeOption{},
		}
	}
}

// Validation composes the reply for a successful eligibility check.
func (c *Composer) Validation(result *agentcore.ValidationResult, ticketID string) Reply {
	if len(result.Content) > longFormThreshold {
		return Reply{
			Text:               result.Content,
			ShowUpgradeButtons: true,
			UpgradeOptions:     c.catalog,
		}
	}

	// No eligible flag means no verdict; the upstream's own wording is the
	// only answer available.
	if !result.HasEligibility {
		return Reply{Text: result.Content, UpgradeOptions: []domain.UpgradeOption{}}
	}

	ticketRef := result.TicketNumber
	if ticketRef == "" {
		ticketRef = ticketID
	}

	if !result.Eligible {
		text := fmt.Sprintf("I've checked your ticket (%s), and unfortunately it's not currently eligible for upgrades.", ticketRef)
		if len(result.Restrictions) > 0 {
			text += " The main reasons are: " + strings.Join(result.Restrictions, ", ") + "."
		} else if result.Reason != "" {
			text += " Reason: " + result.Reason + "."
		}
		text += " I'm happy to help with any other questions you might have."
		return Reply{Text: text, UpgradeOptions: []domain.UpgradeOption{}}
	}

	text := fmt.Sprintf("Great news! Your ticket (%s) is eligible for upgrades.", ticketRef)
	if result.CurrentTier != "" {
		if result.OriginalPrice > 0 {
			text += fmt.Sprintf(" It's a %s ticket for $%s.", result.CurrentTier, formatPrice(result.OriginalPrice))
		} else {
			text += fmt.Sprintf(" It's a %s ticket.", result.CurrentTier)
		}
	}
	text += " Here are the upgrade options available:\n" + formatOptions(c.catalog)
	return Reply{
		Text:               text,
		ShowUpgradeButtons: true,
		UpgradeOptions:     c.catalog,
	}
}

// Pricing composes the reply for an upgrade pricing result.
func (c *Composer) Pricing(result *agentcore.PricingResult, convCtx domain.ConversationContext) Reply {
	if len(result.Content) > longFormThreshold {
		return Reply{
			Text:               result.Content,
			ShowUpgradeButtons: convCtx.SelectedUpgrade == nil,
			UpgradeOptions:     c.catalog,
		}
	}

	text := "Here's the pricing for your upgrade:"
	if result.UpgradePrice > 0 {
		text += fmt.Sprintf(" the upgrade costs $%s", formatPrice(result.UpgradePrice))
		if result.TotalPrice > 0 {
			text += fmt.Sprintf(", bringing your total to $%s", formatPrice(result.TotalPrice))
		}
		text += "."
	} else if result.Content != "" {
		text = result.Content
	}
	return Reply{
		Text:               text,
		ShowUpgradeButtons: convCtx.SelectedUpgrade == nil,
		UpgradeOptions:     c.catalog,
	}
}

// Recommendation composes the reply for an upgrade recommendation result.
func (c *Composer) Recommendation(result *agentcore.RecommendationResult) Reply {
	if len(result.Content) > longFormThreshold {
		return Reply{
			Text:               result.Content,
			ShowUpgradeButtons: true,
			UpgradeOptions:     c.catalog,
		}
	}

	text := "Based on your ticket, I'd recommend considering our upgrade options."
	if best := result.BestValue; best != nil {
		text += fmt.Sprintf(" The %s offers excellent value at $%s", best.Name, formatPrice(best.Price))
		if len(best.Features) > 0 {
			limit := len(best.Features)
			if limit > 2 {
				limit = 2
			}
			text += " with features like " + strings.Join(best.Features[:limit], ", ")
		}
		text += "."
	}
	text += " Here are all the options so you can choose what works best for you:\n" + formatOptions(c.catalog)
	return Reply{
		Text:               text,
		ShowUpgradeButtons: true,
		UpgradeOptions:     c.catalog,
	}
}

// TierComparison composes the reply for a tier comparison result.
func (c *Composer) TierComparison(result *agentcore.TierComparisonResult) Reply {
	if len(result.Content) > longFormThreshold {
		return Reply{
			Text:               result.Content,
			ShowUpgradeButtons: true,
			UpgradeOptions:     c.catalog,
		}
	}

	options := result.Tiers
	if len(options) == 0 {
		options = c.catalog
	}
	text := fmt.Sprintf("We have %d upgrade tiers, each designed to enhance your experience in its own way:\n%s",
		len(options), formatOptions(options))
	return Reply{
		Text:               text,
		ShowUpgradeButtons: true,
		UpgradeOptions:     options,
	}
}

// Confirm composes the confirmation summary for a resolved selection.
// Order creation happens through the separate orders endpoint; this reply
// only explains the next steps.
func (c *Composer) Confirm(option domain.UpgradeOption) Reply {
	text := fmt.Sprintf("Perfect choice! You've selected the %s for $%s.", option.Name, formatPrice(option.Price))
	if len(option.Features) > 0 {
		text += " It includes: " + strings.Join(option.Features, ", ") + "."
	}
	text += " To complete the upgrade, confirm your order and payment details and " +
		"you'll receive a confirmation email with your updated ticket."
	return Reply{Text: text, UpgradeOptions: []domain.UpgradeOption{}}
}

// Failure composes the apology for a failed agent call. The wording tells
// the user whether retrying is worthwhile; tool-reported reasons are
// included, transport details are not.
func (c *Composer) Failure(env agentcore.Envelope) Reply {
	var text string
	switch {
	case env.IsTimeout():
		text = "I'm sorry, our upgrade service is taking longer than expected to " +
			"respond. Please try sending your message again in a moment."
	case env.IsToolError():
		text = "I'm sorry, I ran into a problem while checking that: " + env.Reason() +
			". If this keeps happening, please contact support."
	default:
		text = "I'm sorry, I couldn't reach our upgrade service just now. Please try " +
			"again in a moment."
	}
	return Reply{Text: text, UpgradeOptions: []domain.UpgradeOption{}}
}

func formatOptions(options []domain.UpgradeOption) string {
	var b strings.Builder
	for i, o := range options {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s ($%s): %s", o.Name, formatPrice(o.Price), strings.Join(o.Features, ", "))
	}
	return b.String()
}

func buttonsOrEmpty(show bool, options []domain.UpgradeOption) []domain.UpgradeOption {
	if show {
		return options
	}
	return []domain.UpgradeOption{}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
