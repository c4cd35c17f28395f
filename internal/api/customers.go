package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterCustomerRoutes mounts the customer lookup routes.
func (h *Handler) RegisterCustomerRoutes(r chi.Router) {
	r.Get("/customers/{customerID}", h.HandleGetCustomer)
	r.Post("/customers", h.HandleCreateCustomer)
}

// HandleGetCustomer returns the customer profile for the given ID.
func (h *Handler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	if customerID == "" {
		Error(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	env := h.gateway.GetCustomer(r.Context(), customerID)
	if !env.Success {
		EnvelopeError(w, env)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": env.Data})
}

// HandleCreateCustomer is not supported; customer records are owned by the
// upstream data agent.
func (h *Handler) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotImplemented, "customer creation is managed upstream")
}
