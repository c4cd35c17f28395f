// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/milan9527/agentticket-sub002/internal/domain"
)

// ErrDuplicateOrder is returned when an order for the same ticket and tier
// already exists in a non-terminal status.
var ErrDuplicateOrder = errors.New("duplicate upgrade order for ticket and tier")

// Repository defines the interface for persisting upgrade orders.
type Repository interface {
	// CreateOrder persists a new upgrade order. Returns ErrDuplicateOrder if
	// a non-terminal order for the same (ticket_id, upgrade_tier) exists.
	CreateOrder(ctx context.Context, order *domain.UpgradeOrder) error

	// GetOrder retrieves an order by its ID. Returns nil, nil when absent.
	GetOrder(ctx context.Context, orderID string) (*domain.UpgradeOrder, error)

	// ListOrdersForCustomer returns all orders for a customer, newest first.
	ListOrdersForCustomer(ctx context.Context, customerID string) ([]*domain.UpgradeOrder, error)

	// UpdateOrderStatus transitions an order to a new status.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
