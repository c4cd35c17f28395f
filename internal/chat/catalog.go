// Package chat implements the conversational upgrade flow: signal
// extraction from free text, the turn-by-turn decision logic, and reply
// composition.
package chat

import "github.com/milan9527/agentticket-sub002/internal/domain"

// DefaultCatalog returns the fallback upgrade options offered when the
// Ticket Agent does not supply a catalog of its own.
func DefaultCatalog() []domain.UpgradeOption {
	return []domain.UpgradeOption{
		{
			ID:          "standard",
			Name:        "Standard Upgrade",
			Price:       50,
			Features:    []string{"Priority boarding", "Extra legroom", "Complimentary drink"},
			Description: "Enhanced comfort with priority perks",
		},
		{
			ID:          "premium",
			Name:        "Premium Experience",
			Price:       150,
			Features:    []string{"Premium seating", "Gourmet meal", "Fast track entry", "Lounge access"},
			Description: "Premium experience with exclusive amenities",
		},
		{
			ID:          "vip",
			Name:        "VIP Package",
			Price:       300,
			Features:    []string{"VIP seating", "Meet & greet", "Exclusive merchandise", "Photo opportunities", "Backstage tour"},
			Description: "Ultimate VIP experience with exclusive access",
		},
	}
}
