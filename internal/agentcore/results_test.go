package agentcore

import (
	"errors"
	"testing"
)

func TestDecodeValidationShapes(t *testing.T) {
	t.Run("structured fields", func(t *testing.T) {
		env := Envelope{Success: true, Data: map[string]any{
			"eligible":     true,
			"current_tier": "standard",
			"ticket": map[string]any{
				"ticket_number":  "TKT-1001",
				"original_price": 120.0,
			},
			"restrictions": []any{"none"},
		}}

		result, err := DecodeValidation(env)
		if err != nil {
			t.Fatalf("DecodeValidation: %v", err)
		}
		if !result.Eligible || !result.HasEligibility || result.CurrentTier != "standard" {
			t.Errorf("result = %+v", result)
		}
		if result.TicketNumber != "TKT-1001" || result.OriginalPrice != 120 {
			t.Errorf("ticket fields = %+v", result)
		}
		if len(result.Restrictions) != 1 || result.Restrictions[0] != "none" {
			t.Errorf("restrictions = %v", result.Restrictions)
		}
	})

	t.Run("ticket_type fills missing tier", func(t *testing.T) {
		env := Envelope{Success: true, Data: map[string]any{
			"eligible": true,
			"ticket":   map[string]any{"ticket_type": "premium"},
		}}

		result, err := DecodeValidation(env)
		if err != nil {
			t.Fatalf("DecodeValidation: %v", err)
		}
		if result.CurrentTier != "premium" {
			t.Errorf("CurrentTier = %q, want premium", result.CurrentTier)
		}
	})

	t.Run("content without eligible flag stays undetermined", func(t *testing.T) {
		env := Envelope{Success: true, Data: map[string]any{
			"content": "Your ticket details are being reviewed.",
		}}

		result, err := DecodeValidation(env)
		if err != nil {
			t.Fatalf("DecodeValidation: %v", err)
		}
		if result.HasEligibility {
			t.Error("HasEligibility = true for a flag the upstream never sent")
		}
		if result.Eligible {
			t.Error("Eligible = true without an eligible flag")
		}
		if result.Content == "" {
			t.Error("Content lost during decode")
		}
	})

	t.Run("unrecognized shape fails closed", func(t *testing.T) {
		env := Envelope{Success: true, Data: map[string]any{"unexpected": 1.0}}

		_, err := DecodeValidation(env)
		if !errors.Is(err, ErrUnrecognizedShape) {
			t.Errorf("err = %v, want ErrUnrecognizedShape", err)
		}
	})
}

func TestDecodePricingFailsClosed(t *testing.T) {
	env := Envelope{Success: true, Data: map[string]any{"something": "else"}}

	_, err := DecodePricing(env)
	if !errors.Is(err, ErrUnrecognizedShape) {
		t.Errorf("err = %v, want ErrUnrecognizedShape", err)
	}
}

func TestDecodeTickets(t *testing.T) {
	env := Envelope{Success: true, Data: map[string]any{
		"tickets": []any{
			map[string]any{
				"ticket_id":      "tkt-1",
				"customer_id":    "cust-1",
				"ticket_type":    "standard",
				"original_price": 120.0,
				"status":         "active",
				"event_date":     "2026-09-15",
			},
			map[string]any{"no_id": true},
			"not an object",
		},
	}}

	tickets, err := DecodeTickets(env)
	if err != nil {
		t.Fatalf("DecodeTickets: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("tickets = %d, want 1 (invalid entries skipped)", len(tickets))
	}
	ticket := tickets[0]
	if ticket.TicketID != "tkt-1" || !ticket.Upgradeable() {
		t.Errorf("ticket = %+v", ticket)
	}
	if ticket.EventDate.IsZero() {
		t.Error("event_date not parsed")
	}
}

func TestDecodeTicketsMissingList(t *testing.T) {
	env := Envelope{Success: true, Data: map[string]any{"content": "hello"}}

	_, err := DecodeTickets(env)
	if !errors.Is(err, ErrUnrecognizedShape) {
		t.Errorf("err = %v, want ErrUnrecognizedShape", err)
	}
}
