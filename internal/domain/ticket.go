package domain

import "time"

// TicketStatus is the lifecycle state of a purchased ticket.
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusExpired   TicketStatus = "expired"
	TicketStatusCancelled TicketStatus = "cancelled"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusUpgraded  TicketStatus = "upgraded"
)

// TicketType categorizes the purchased admission.
type TicketType string

const (
	TicketTypeGeneral  TicketType = "general"
	TicketTypeStandard TicketType = "standard"
	TicketTypePremium  TicketType = "premium"
	TicketTypeVIP      TicketType = "vip"
)

// Ticket is a purchased admission record belonging to a customer.
// Populated from Data Agent responses; never written locally.
type Ticket struct {
	TicketID      string       `json:"ticket_id"`
	CustomerID    string       `json:"customer_id"`
	TicketNumber  string       `json:"ticket_number"`
	TicketType    TicketType   `json:"ticket_type"`
	OriginalPrice float64      `json:"original_price"`
	EventDate     time.Time    `json:"event_date"`
	Status        TicketStatus `json:"status"`
}

// Upgradeable returns true if the ticket status permits a tier upgrade.
func (t *Ticket) Upgradeable() bool {
	return t.Status == TicketStatusActive
}
