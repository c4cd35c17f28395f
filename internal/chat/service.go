package chat

import (
	"context"
	"log/slog"

	"github.com/milan9527/agentticket-sub002/internal/agentcore"
	"github.com/milan9527/agentticket-sub002/internal/domain"
)

// TurnRequest is one user message plus the client-echoed continuity state.
type TurnRequest struct {
	Message    string
	History    []domain.ConversationTurn
	Context    domain.ConversationContext
	CustomerID string
}

// TurnResponse is the reply for one turn together with the context the
// client must echo back on the next turn.
type TurnResponse struct {
	Reply   Reply
	Context domain.ConversationContext
}

// Service processes chat turns. It holds no per-conversation state; all
// continuity lives in the context carried by the client.
type Service struct {
	gateway   agentcore.Gateway
	extractor *Extractor
	composer  *Composer
	logger    *slog.Logger
	histLimit int
}

// NewService creates a chat service backed by the given agent gateway.
func NewService(gateway agentcore.Gateway, historyLimit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if historyLimit <= 0 {
		historyLimit = domain.HistoryLimit
	}
	return &Service{
		gateway:   gateway,
		extractor: NewExtractor(nil),
		composer:  NewComposer(nil),
		logger:    logger,
		histLimit: historyLimit,
	}
}

// ProcessTurn runs one message through extraction, action selection, any
// required agent calls, and response composition. Agent failures never
// mutate the conversation context and are never retried within a turn.
func (s *Service) ProcessTurn(ctx context.Context, req TurnRequest) TurnResponse {
	convCtx := req.Context
	history := domain.RecentTurns(req.History, s.histLimit)

	// Selection matching runs against the options actually offered in this
	// conversation; the static catalog only applies before any agent call
	// has replaced it.
	offered := convCtx.UpgradeOptions
	if len(offered) == 0 {
		offered = s.composer.Catalog()
	}
	signals := s.extractor.Extract(req.Message, convCtx, offered)
	action := Decide(convCtx, signals, req.CustomerID)

	s.logger.Debug("chat turn",
		"action", int(action.Kind),
		"ticket_id", action.TicketID,
		"intents", len(signals.Intents),
		"history", len(history),
	)

	switch action.Kind {
	case ActionAskForTicketID:
		return TurnResponse{Reply: s.composer.AskForTicketID(), Context: convCtx}

	case ActionConfirmSelection:
		next := convCtx
		selected := *action.Selected
		next.SelectedUpgrade = &selected
		return TurnResponse{Reply: s.composer.Confirm(selected), Context: next}

	case ActionCallValidate:
		return s.validateTurn(ctx, action, signals, convCtx)

	case ActionCallPricing:
		return s.pricingTurn(ctx, action, convCtx)

	case ActionCallRecommendations:
		env := s.gateway.GetUpgradeRecommendations(ctx, action.CustomerID, action.TicketID)
		if !env.Success {
			return s.failureTurn(env, convCtx)
		}
		result, err := agentcore.DecodeRecommendation(env)
		if err != nil {
			return s.failureTurn(agentcore.MalformedResult(err), convCtx)
		}
		return TurnResponse{Reply: s.composer.Recommendation(result), Context: convCtx}

	case ActionCallTierComparison:
		env := s.gateway.GetUpgradeTierComparison(ctx, action.TicketID)
		if !env.Success {
			return s.failureTurn(env, convCtx)
		}
		result, err := agentcore.DecodeTierComparison(env)
		if err != nil {
			return s.failureTurn(agentcore.MalformedResult(err), convCtx)
		}
		next := convCtx
		if len(result.Tiers) > 0 {
			next.UpgradeOptions = result.Tiers
			next.HasUpgradeOptions = true
		}
		return TurnResponse{Reply: s.composer.TierComparison(result), Context: next}

	default:
		return TurnResponse{Reply: s.composer.Direct(action.Intent, convCtx), Context: convCtx}
	}
}

// validateTurn checks ticket eligibility and, when the same message also
// asked about pricing, continues into a pricing call against the now-known
// ticket.
func (s *Service) validateTurn(ctx context.Context, action Action, signals Signals, convCtx domain.ConversationContext) TurnResponse {
	env := s.gateway.ValidateTicketEligibility(ctx, action.TicketID, action.Tier)
	if !env.Success {
		return s.failureTurn(env, convCtx)
	}
	result, err := agentcore.DecodeValidation(env)
	if err != nil {
		return s.failureTurn(agentcore.MalformedResult(err), convCtx)
	}

	next := convCtx
	next.TicketID = action.TicketID
	next.HasTicketInfo = true
	if result.Eligible {
		next.HasUpgradeOptions = true
		next.UpgradeOptions = s.composer.Catalog()
	}

	if result.Eligible && signals.HasIntent(IntentPricingRequest) {
		followup := Action{
			Kind:     ActionCallPricing,
			TicketID: action.TicketID,
			Tier:     defaultTier,
		}
		return s.pricingTurn(ctx, followup, next)
	}

	return TurnResponse{Reply: s.composer.Validation(result, action.TicketID), Context: next}
}

func (s *Service) pricingTurn(ctx context.Context, action Action, convCtx domain.ConversationContext) TurnResponse {
	env := s.gateway.CalculateUpgradePricing(ctx, action.TicketID, action.Tier, action.TravelDate)
	if !env.Success {
		return s.failureTurn(env, convCtx)
	}
	result, err := agentcore.DecodePricing(env)
	if err != nil {
		return s.failureTurn(agentcore.MalformedResult(err), convCtx)
	}
	return TurnResponse{Reply: s.composer.Pricing(result, convCtx), Context: convCtx}
}

// failureTurn logs the upstream failure and returns an apology without
// touching the conversation context.
func (s *Service) failureTurn(env agentcore.Envelope, convCtx domain.ConversationContext) TurnResponse {
	s.logger.Error("agent call failed", "error", env.Error)
	return TurnResponse{Reply: s.composer.Failure(env), Context: convCtx}
}
