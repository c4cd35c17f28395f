package agentcore

import (
	"errors"
	"fmt"
	"time"

	"github.com/milan9527/agentticket-sub002/internal/domain"
)

// ErrUnrecognizedShape is returned when an envelope's data does not match
// the shape expected for the tool that produced it. Decoders fail closed
// rather than guessing at field meanings.
var ErrUnrecognizedShape = errors.New("unrecognized agent payload shape")

// ValidationResult is the decoded output of validate_ticket_eligibility.
// HasEligibility reports whether the upstream actually stated an eligible
// flag; when false, Eligible carries no information and Content holds the
// upstream's own wording.
type ValidationResult struct {
	Eligible       bool
	HasEligibility bool
	CurrentTier    string
	Reason         string
	TicketNumber   string
	OriginalPrice  float64
	Restrictions   []string
	Content        string // long-form LLM text, when provided
}

// PricingResult is the decoded output of calculate_upgrade_pricing.
type PricingResult struct {
	UpgradePrice float64
	TotalPrice   float64
	Content      string
}

// RecommendationResult is the decoded output of get_upgrade_recommendations.
type RecommendationResult struct {
	BestValue *domain.UpgradeOption
	Content   string
}

// TierComparisonResult is the decoded output of get_upgrade_tier_comparison.
type TierComparisonResult struct {
	TierCount int
	Tiers     []domain.UpgradeOption
	Content   string
}

// DecodeValidation decodes a validate_ticket_eligibility envelope.
func DecodeValidation(env Envelope) (*ValidationResult, error) {
	if !env.Success {
		return nil, fmt.Errorf("decode validation: envelope not successful: %s", env.Error)
	}
	data := env.Data
	content := stringField(data, "content")

	eligible, hasEligible := boolField(data, "eligible")
	if !hasEligible && content == "" {
		return nil, fmt.Errorf("%w: validation result has neither eligible flag nor content", ErrUnrecognizedShape)
	}

	result := &ValidationResult{
		Eligible:       eligible,
		HasEligibility: hasEligible,
		CurrentTier:    stringField(data, "current_tier"),
		Reason:         stringField(data, "reason"),
		Content:        content,
	}
	if ticket, ok := data["ticket"].(map[string]any); ok {
		result.TicketNumber = stringField(ticket, "ticket_number")
		result.OriginalPrice = numberField(ticket, "original_price")
		if result.CurrentTier == "" {
			result.CurrentTier = stringField(ticket, "ticket_type")
		}
	}
	if restrictions, ok := data["restrictions"].([]any); ok {
		for _, r := range restrictions {
			if s, ok := r.(string); ok {
				result.Restrictions = append(result.Restrictions, s)
			}
		}
	}
	return result, nil
}

// DecodePricing decodes a calculate_upgrade_pricing envelope.
func DecodePricing(env Envelope) (*PricingResult, error) {
	if !env.Success {
		return nil, fmt.Errorf("decode pricing: envelope not successful: %s", env.Error)
	}
	data := env.Data
	content := stringField(data, "content")

	pricing, ok := data["pricing"].(map[string]any)
	if !ok {
		pricing = data
	}
	upgradePrice := numberField(pricing, "upgrade_price")
	totalPrice := numberField(pricing, "total_price")
	if upgradePrice == 0 && totalPrice == 0 && content == "" {
		return nil, fmt.Errorf("%w: pricing result has neither prices nor content", ErrUnrecognizedShape)
	}

	return &PricingResult{
		UpgradePrice: upgradePrice,
		TotalPrice:   totalPrice,
		Content:      content,
	}, nil
}

// DecodeRecommendation decodes a get_upgrade_recommendations envelope.
func DecodeRecommendation(env Envelope) (*RecommendationResult, error) {
	if !env.Success {
		return nil, fmt.Errorf("decode recommendation: envelope not successful: %s", env.Error)
	}
	data := env.Data
	content := stringField(data, "content")

	result := &RecommendationResult{Content: content}
	if best, ok := data["best_value"].(map[string]any); ok {
		option := domain.UpgradeOption{
			ID:    stringField(best, "id"),
			Name:  stringField(best, "name"),
			Price: numberField(best, "price"),
		}
		if features, ok := best["features"].([]any); ok {
			for _, f := range features {
				if s, ok := f.(string); ok {
					option.Features = append(option.Features, s)
				}
			}
		}
		result.BestValue = &option
	}
	if result.BestValue == nil && content == "" {
		return nil, fmt.Errorf("%w: recommendation result has neither best_value nor content", ErrUnrecognizedShape)
	}
	return result, nil
}

// DecodeTierComparison decodes a get_upgrade_tier_comparison envelope.
func DecodeTierComparison(env Envelope) (*TierComparisonResult, error) {
	if !env.Success {
		return nil, fmt.Errorf("decode tier comparison: envelope not successful: %s", env.Error)
	}
	data := env.Data
	content := stringField(data, "content")

	result := &TierComparisonResult{Content: content}
	if count, ok := data["tier_count"].(float64); ok {
		result.TierCount = int(count)
	}
	if tiers, ok := data["tiers"].([]any); ok {
		for _, t := range tiers {
			tier, ok := t.(map[string]any)
			if !ok {
				continue
			}
			option := domain.UpgradeOption{
				ID:          stringField(tier, "id"),
				Name:        stringField(tier, "name"),
				Price:       numberField(tier, "price"),
				Description: stringField(tier, "description"),
			}
			if features, ok := tier["features"].([]any); ok {
				for _, f := range features {
					if s, ok := f.(string); ok {
						option.Features = append(option.Features, s)
					}
				}
			}
			result.Tiers = append(result.Tiers, option)
		}
	}
	if result.TierCount == 0 {
		result.TierCount = len(result.Tiers)
	}
	if len(result.Tiers) == 0 && result.TierCount == 0 && content == "" {
		return nil, fmt.Errorf("%w: tier comparison has neither tiers nor content", ErrUnrecognizedShape)
	}
	return result, nil
}

// DecodeTickets decodes a get_tickets_for_customer envelope into typed
// ticket records. Unparseable entries are skipped rather than failing the
// whole list.
func DecodeTickets(env Envelope) ([]domain.Ticket, error) {
	if !env.Success {
		return nil, fmt.Errorf("decode tickets: envelope not successful: %s", env.Error)
	}
	raw, ok := env.Data["tickets"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: ticket list missing tickets array", ErrUnrecognizedShape)
	}

	tickets := make([]domain.Ticket, 0, len(raw))
	for _, r := range raw {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		ticket := domain.Ticket{
			TicketID:      stringField(entry, "ticket_id"),
			CustomerID:    stringField(entry, "customer_id"),
			TicketNumber:  stringField(entry, "ticket_number"),
			TicketType:    domain.TicketType(stringField(entry, "ticket_type")),
			OriginalPrice: numberField(entry, "original_price"),
			Status:        domain.TicketStatus(stringField(entry, "status")),
		}
		if dateStr := stringField(entry, "event_date"); dateStr != "" {
			for _, layout := range []string{time.RFC3339, "2006-01-02"} {
				if t, err := time.Parse(layout, dateStr); err == nil {
					ticket.EventDate = t
					break
				}
			}
		}
		if ticket.TicketID == "" {
			continue
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func stringField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

func boolField(data map[string]any, key string) (bool, bool) {
	if data == nil {
		return false, false
	}
	b, ok := data[key].(bool)
	return b, ok
}

func numberField(data map[string]any, key string) float64 {
	if data == nil {
		return 0
	}
	n, _ := data[key].(float64)
	return n
}
