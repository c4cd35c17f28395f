package domain

import "time"

// OrderStatus is the lifecycle state of an upgrade order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Terminal reports whether the order can no longer change state. A new
// order for the same (ticket, tier) pair is only allowed once any prior
// order has reached a terminal status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// UpgradeOrder records a requested ticket upgrade. This is the only
// state-mutating record in the whole surface.
type UpgradeOrder struct {
	OrderID     string      `json:"order_id"`
	CustomerID  string      `json:"customer_id"`
	TicketID    string      `json:"ticket_id"`
	UpgradeTier string      `json:"upgrade_tier"`
	TravelDate  string      `json:"travel_date"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
