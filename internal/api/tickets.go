package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/milan9527/agentticket-sub002/internal/agentcore"
)

// RegisterTicketRoutes mounts the ticket lookup and upgrade routes.
func (h *Handler) RegisterTicketRoutes(r chi.Router) {
	r.Get("/tickets/{customerID}", h.HandleListTickets)
	r.Post("/tickets/{ticketID}/validate", h.HandleValidateTicket)
	r.Post("/tickets/{ticketID}/pricing", h.HandleTicketPricing)
	r.Get("/tickets/{ticketID}/recommendations", h.HandleRecommendations)
	r.Get("/tickets/{ticketID}/tiers", h.HandleTierComparison)
}

// HandleListTickets returns all tickets belonging to a customer.
func (h *Handler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	if customerID == "" {
		Error(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	env := h.gateway.GetTicketsForCustomer(r.Context(), customerID)
	if !env.Success {
		EnvelopeError(w, env)
		return
	}

	tickets, err := agentcore.DecodeTickets(env)
	if err != nil {
		// The agent answered but not with a ticket list shape.
		Error(w, http.StatusBadGateway, "upstream returned an unrecognized ticket list")
		return
	}

	upgradeable := make([]string, 0, len(tickets))
	for i := range tickets {
		if tickets[i].Upgradeable() {
			upgradeable = append(upgradeable, tickets[i].TicketID)
		}
	}
	JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"tickets":     tickets,
		"upgradeable": upgradeable,
	})
}

type validateRequest struct {
	UpgradeTier string `json:"upgrade_tier"`
}

// HandleValidateTicket checks upgrade eligibility for a ticket.
func (h *Handler) HandleValidateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	var req validateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.UpgradeTier == "" {
		req.UpgradeTier = "standard"
	}

	env := h.gateway.ValidateTicketEligibility(r.Context(), ticketID, req.UpgradeTier)
	if !env.Success {
		EnvelopeError(w, env)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": env.Data})
}

type pricingRequest struct {
	UpgradeTier string `json:"upgrade_tier"`
	TravelDate  string `json:"travel_date"`
}

// HandleTicketPricing quotes upgrade pricing for a ticket.
func (h *Handler) HandleTicketPricing(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	var req pricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UpgradeTier == "" {
		Error(w, http.StatusBadRequest, "upgrade_tier is required")
		return
	}

	env := h.gateway.CalculateUpgradePricing(r.Context(), ticketID, req.UpgradeTier, req.TravelDate)
	if !env.Success {
		EnvelopeError(w, env)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": env.Data})
}

// HandleRecommendations returns upgrade recommendations for a ticket.
// The owning customer is passed as a query parameter.
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		Error(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	env := h.gateway.GetUpgradeRecommendations(r.Context(), customerID, ticketID)
	if !env.Success {
		EnvelopeError(w, env)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": env.Data})
}

// HandleTierComparison returns the tier comparison table for a ticket.
func (h *Handler) HandleTierComparison(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	env := h.gateway.GetUpgradeTierComparison(r.Context(), ticketID)
	if !env.Success {
		EnvelopeError(w, env)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": env.Data})
}
