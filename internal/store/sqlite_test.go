package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/milan9527/agentticket-sub002/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "orders.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return repo
}

func testOrder(id, ticketID, tier string) *domain.UpgradeOrder {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.UpgradeOrder{
		OrderID:     id,
		CustomerID:  "cust-1",
		TicketID:    ticketID,
		UpgradeTier: tier,
		TravelDate:  "2026-09-15",
		TotalAmount: 170,
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	order := testOrder("ord-1", "tkt-1", "standard")
	if err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	got, err := repo.GetOrder(ctx, "ord-1")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got == nil {
		t.Fatal("GetOrder returned nil for existing order")
	}
	if got.TicketID != "tkt-1" || got.UpgradeTier != "standard" || got.Status != domain.OrderStatusPending {
		t.Errorf("order = %+v", got)
	}
	if got.TotalAmount != 170 {
		t.Errorf("TotalAmount = %v, want 170", got.TotalAmount)
	}
}

func TestGetOrderMissing(t *testing.T) {
	repo := newTestStore(t)

	got, err := repo.GetOrder(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got != nil {
		t.Errorf("GetOrder = %+v, want nil", got)
	}
}

func TestDuplicateOpenOrderRejected(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.CreateOrder(ctx, testOrder("ord-1", "tkt-1", "standard")); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	err := repo.CreateOrder(ctx, testOrder("ord-2", "tkt-1", "standard"))
	if !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("err = %v, want ErrDuplicateOrder", err)
	}

	// A different tier on the same ticket is a different order.
	if err := repo.CreateOrder(ctx, testOrder("ord-3", "tkt-1", "vip")); err != nil {
		t.Errorf("CreateOrder different tier: %v", err)
	}
}

func TestTerminalStatusAllowsNewOrder(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.CreateOrder(ctx, testOrder("ord-1", "tkt-1", "standard")); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := repo.UpdateOrderStatus(ctx, "ord-1", domain.OrderStatusCancelled); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	if err := repo.CreateOrder(ctx, testOrder("ord-2", "tkt-1", "standard")); err != nil {
		t.Errorf("CreateOrder after terminal status: %v", err)
	}
}

func TestListOrdersForCustomer(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	first := testOrder("ord-1", "tkt-1", "standard")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	first.UpdatedAt = first.CreatedAt
	if err := repo.CreateOrder(ctx, first); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := repo.CreateOrder(ctx, testOrder("ord-2", "tkt-2", "vip")); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	other := testOrder("ord-3", "tkt-3", "premium")
	other.CustomerID = "cust-2"
	if err := repo.CreateOrder(ctx, other); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	orders, err := repo.ListOrdersForCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("ListOrdersForCustomer: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	if orders[0].OrderID != "ord-2" {
		t.Errorf("orders[0] = %s, want ord-2 (newest first)", orders[0].OrderID)
	}
}

func TestUpdateOrderStatusMissing(t *testing.T) {
	repo := newTestStore(t)

	err := repo.UpdateOrderStatus(context.Background(), "nope", domain.OrderStatusCompleted)
	if err == nil {
		t.Error("UpdateOrderStatus succeeded for missing order")
	}
}
