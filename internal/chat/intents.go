package chat

import "strings"

// Intent is a category of user request detected from message text.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentUpgradeRequest Intent = "upgrade_request"
	IntentPricingRequest Intent = "pricing_request"
	IntentValidation     Intent = "validation_request"
	IntentRecommendation Intent = "recommendation_request"
	IntentComparison     Intent = "comparison_request"
	IntentFeatures       Intent = "feature_inquiry"
	IntentTicketInquiry  Intent = "ticket_inquiry"
	IntentHelp           Intent = "help_request"
	IntentAffirmative    Intent = "affirmative"
	IntentNegative       Intent = "negative"
)

// KeywordTable maps each intent to the phrases that trigger it. Matching
// is case-insensitive; single words must match a whole word, multi-word
// phrases match as substrings. Behavior is data-driven so the table can be
// tuned without touching the matcher.
type KeywordTable struct {
	order    []Intent
	keywords map[Intent][]string
}

// DefaultKeywords returns the built-in intent keyword table.
func DefaultKeywords() *KeywordTable {
	return NewKeywordTable([]intentKeywords{
		{IntentGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon"}},
		{IntentValidation, []string{"eligible", "valid", "check", "can i upgrade"}},
		{IntentRecommendation, []string{"recommend", "suggest", "best", "which upgrade"}},
		{IntentComparison, []string{"compare", "tiers", "what are", "show me"}},
		{IntentPricingRequest, []string{"cost", "price", "how much", "pricing", "expensive"}},
		{IntentFeatures, []string{"features", "benefits", "what do i get", "includes", "perks"}},
		{IntentUpgradeRequest, []string{"upgrade", "better", "premium", "vip", "enhance"}},
		{IntentTicketInquiry, []string{"ticket", "booking", "reservation"}},
		{IntentHelp, []string{"help", "what can you do", "assist", "support"}},
		{IntentAffirmative, []string{"yes", "sure", "okay", "sounds good", "interested", "tell me more"}},
		{IntentNegative, []string{"no", "not interested", "maybe later", "not now"}},
	})
}

type intentKeywords struct {
	intent   Intent
	keywords []string
}

// NewKeywordTable builds a table preserving the given intent order for
// deterministic matching.
func NewKeywordTable(entries []intentKeywords) *KeywordTable {
	t := &KeywordTable{keywords: make(map[Intent][]string, len(entries))}
	for _, e := range entries {
		t.order = append(t.order, e.intent)
		t.keywords[e.intent] = e.keywords
	}
	return t
}

// Detect returns all intents whose keywords appear in the message, in
// table order. Multiple categories may match; all are returned.
func (t *KeywordTable) Detect(message string) []Intent {
	lower := strings.ToLower(message)
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, isWordSeparator) {
		words[w] = true
	}

	var matched []Intent
	for _, intent := range t.order {
		for _, kw := range t.keywords[intent] {
			if matchKeyword(lower, words, kw) {
				matched = append(matched, intent)
				break
			}
		}
	}
	return matched
}

func matchKeyword(lower string, words map[string]bool, kw string) bool {
	if strings.ContainsRune(kw, ' ') {
		return strings.Contains(lower, kw)
	}
	return words[kw]
}

func isWordSeparator(r rune) bool {
	return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
}
