package chat

import (
	"testing"

	"github.com/milan9527/agentticket-sub002/internal/domain"
)

func TestExtractTicketID(t *testing.T) {
	ex := NewExtractor(nil)
	catalog := DefaultCatalog()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "bare ticket id",
			message: "550e8400-e29b-41d4-a716-446655440002",
			want:    "550e8400-e29b-41d4-a716-446655440002",
		},
		{
			name:    "ticket id with surrounding text",
			message: "my ticket is 550e8400-e29b-41d4-a716-446655440002 thanks",
			want:    "550e8400-e29b-41d4-a716-446655440002",
		},
		{
			name:    "uppercase ticket id normalized",
			message: "550E8400-E29B-41D4-A716-446655440002",
			want:    "550e8400-e29b-41d4-a716-446655440002",
		},
		{
			name:    "no ticket id",
			message: "I want to upgrade my ticket",
			want:    "",
		},
		{
			name:    "malformed groups rejected",
			message: "550e8400-e29b-41d4-446655440002",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := ex.Extract(tt.message, domain.ConversationContext{}, catalog)
			if signals.TicketID != tt.want {
				t.Errorf("TicketID = %q, want %q", signals.TicketID, tt.want)
			}
		})
	}
}

func TestExtractIntents(t *testing.T) {
	ex := NewExtractor(nil)
	catalog := DefaultCatalog()

	tests := []struct {
		name    string
		message string
		want    []Intent
	}{
		{
			name:    "upgrade request",
			message: "I want to upgrade my ticket",
			want:    []Intent{IntentUpgradeRequest, IntentTicketInquiry},
		},
		{
			name:    "pricing request",
			message: "how much does it cost?",
			want:    []Intent{IntentPricingRequest},
		},
		{
			name:    "validation request",
			message: "is my ticket eligible?",
			want:    []Intent{IntentValidation, IntentTicketInquiry},
		},
		{
			name:    "multiple categories in one message",
			message: "what would an upgrade cost and is my ticket valid?",
			want:    []Intent{IntentValidation, IntentPricingRequest, IntentUpgradeRequest, IntentTicketInquiry},
		},
		{
			name:    "no keyword inside larger words",
			message: "nothing noteworthy here",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := ex.Extract(tt.message, domain.ConversationContext{}, catalog)
			if len(signals.Intents) != len(tt.want) {
				t.Fatalf("Intents = %v, want %v", signals.Intents, tt.want)
			}
			for i, intent := range tt.want {
				if signals.Intents[i] != intent {
					t.Errorf("Intents[%d] = %v, want %v", i, signals.Intents[i], intent)
				}
			}
		})
	}
}

func TestExtractSelection(t *testing.T) {
	ex := NewExtractor(nil)
	catalog := []domain.UpgradeOption{
		{ID: "standard", Name: "Standard Upgrade", Price: 50},
		{ID: "standard-plus", Name: "Standard Upgrade Plus", Price: 90},
		{ID: "vip", Name: "VIP Package", Price: 300},
	}

	withOptions := domain.ConversationContext{HasUpgradeOptions: true}

	t.Run("matches offered option by name", func(t *testing.T) {
		signals := ex.Extract("I'll take the VIP Package please", withOptions, catalog)
		if signals.SelectedUpgrade == nil || signals.SelectedUpgrade.ID != "vip" {
			t.Fatalf("SelectedUpgrade = %+v, want vip", signals.SelectedUpgrade)
		}
	})

	t.Run("longest name wins on overlap", func(t *testing.T) {
		signals := ex.Extract("give me the standard upgrade plus", withOptions, catalog)
		if signals.SelectedUpgrade == nil || signals.SelectedUpgrade.ID != "standard-plus" {
			t.Fatalf("SelectedUpgrade = %+v, want standard-plus", signals.SelectedUpgrade)
		}
	})

	t.Run("no selection without offered options", func(t *testing.T) {
		signals := ex.Extract("VIP Package", domain.ConversationContext{}, catalog)
		if signals.SelectedUpgrade != nil {
			t.Fatalf("SelectedUpgrade = %+v, want nil", signals.SelectedUpgrade)
		}
	})

	t.Run("selection is value copy of the offered option", func(t *testing.T) {
		signals := ex.Extract("Standard Upgrade", withOptions, catalog)
		if signals.SelectedUpgrade == nil {
			t.Fatal("expected a selection")
		}
		if signals.SelectedUpgrade.Price != 50 || signals.SelectedUpgrade.Name != "Standard Upgrade" {
			t.Errorf("selection fields = %+v", signals.SelectedUpgrade)
		}
	})
}
