package policy

import (
	"errors"
	"fmt"
)

// ErrUnknownModelTier is returned when a pricing lookup misses the table.
var ErrUnknownModelTier = errors.New("unknown model tier")

// pricePerKiloTokens is the documented price table in cost units per 1000
// tokens. Cheap maps to GPT-3.5-class models (roughly 95% cheaper than the
// premium tier), balanced to GPT-4o-class, premium to GPT-4.1-class.
var pricePerKiloTokens = map[ModelTier]float64{
	TierCheap:    0.002,
	TierBalanced: 0.010,
	TierPremium:  0.030,
}

// CostEstimate is the read-only cost derived from a completed run.
type CostEstimate struct {
	TokensUsed int       `json:"tokensUsed"`
	ModelTier  ModelTier `json:"modelTier"`
	CostUnits  float64   `json:"costUnits"`
}

// EstimateCost prices a token count against the per-tier table.
// The result is deterministic and monotonic: more tokens or a higher tier
// never produce a lower cost.
func EstimateCost(tokensUsed int, tier ModelTier) (CostEstimate, error) {
	if tokensUsed < 0 {
		return CostEstimate{}, fmt.Errorf("%w: tokensUsed must be >= 0, got %d", ErrInvalidConfiguration, tokensUsed)
	}

	price, ok := pricePerKiloTokens[tier]
	if !ok {
		return CostEstimate{}, fmt.Errorf("%w: %q", ErrUnknownModelTier, tier)
	}

	return CostEstimate{
		TokensUsed: tokensUsed,
		ModelTier:  tier,
		CostUnits:  float64(tokensUsed) / 1000 * price,
	}, nil
}
