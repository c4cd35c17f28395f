package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/milan9527/agentticket-sub002/internal/domain"
	"github.com/milan9527/agentticket-sub002/internal/store"
)

// RegisterOrderRoutes mounts the order routes.
func (h *Handler) RegisterOrderRoutes(r chi.Router) {
	r.Post("/orders", h.HandleCreateOrder)
	r.Get("/orders/{orderID}", h.HandleGetOrder)
	r.Get("/customers/{customerID}/orders", h.HandleListOrders)
}

type createOrderRequest struct {
	CustomerID  string  `json:"customer_id"`
	TicketID    string  `json:"ticket_id"`
	UpgradeTier string  `json:"upgrade_tier"`
	TravelDate  string  `json:"travel_date"`
	TotalAmount float64 `json:"total_amount"`
}

// HandleCreateOrder creates an upgrade order. This is the only
// state-mutating operation in the surface: the local ledger rejects a
// duplicate (ticket, tier) pair still in flight before the upstream
// create_upgrade_order tool is ever invoked.
func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CustomerID == "" || req.TicketID == "" || req.UpgradeTier == "" {
		Error(w, http.StatusBadRequest, "customer_id, ticket_id and upgrade_tier are required")
		return
	}
	if req.TotalAmount < 0 {
		Error(w, http.StatusBadRequest, "total_amount must not be negative")
		return
	}

	now := time.Now().UTC()
	order := &domain.UpgradeOrder{
		OrderID:     uuid.NewString(),
		CustomerID:  req.CustomerID,
		TicketID:    req.TicketID,
		UpgradeTier: req.UpgradeTier,
		TravelDate:  req.TravelDate,
		TotalAmount: req.TotalAmount,
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.CreateOrder(r.Context(), order); err != nil {
		if errors.Is(err, store.ErrDuplicateOrder) {
			Error(w, http.StatusConflict, "an upgrade order for this ticket and tier is already in progress")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	env := h.gateway.CreateUpgradeOrder(r.Context(), req.CustomerID, req.TicketID, req.UpgradeTier, req.TravelDate, req.TotalAmount)
	if !env.Success {
		// The upstream never saw the order, or saw it and refused. The
		// local record is closed out so a retry is possible.
		if updateErr := h.repo.UpdateOrderStatus(r.Context(), order.OrderID, domain.OrderStatusFailed); updateErr != nil {
			Error(w, http.StatusInternalServerError, "failed to record order outcome")
			return
		}
		EnvelopeError(w, env)
		return
	}

	if err := h.repo.UpdateOrderStatus(r.Context(), order.OrderID, domain.OrderStatusProcessing); err != nil {
		Error(w, http.StatusInternalServerError, "failed to record order outcome")
		return
	}
	order.Status = domain.OrderStatusProcessing
	order.UpdatedAt = time.Now().UTC()

	JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"order":   order,
		"data":    env.Data,
	})
}

// HandleGetOrder returns a single order from the local ledger.
func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.repo.GetOrder(r.Context(), orderID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if order == nil {
		Error(w, http.StatusNotFound, "order not found")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

// HandleListOrders returns a customer's orders from the local ledger.
func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	orders, err := h.repo.ListOrdersForCustomer(r.Context(), customerID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []*domain.UpgradeOrder{}
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}
