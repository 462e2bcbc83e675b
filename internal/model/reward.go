// internal/model/reward.go
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RewardDetails is a variant keyed by the campaign type. Only the fields that belong to the
// campaign's type may be set; Validate enforces that.
type RewardDetails struct {
	Token      string           `json:"token,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Multiplier *decimal.Decimal `json:"multiplier,omitempty"`
	Details    string           `json:"details,omitempty"`
}

// RewardFieldError names the reward field that does not fit the campaign type.
type RewardFieldError struct {
	Field  string
	Reason string
}

func (e *RewardFieldError) Error() string {
	return fmt.Sprintf("reward_details.%s %s", e.Field, e.Reason)
}

func (r RewardDetails) Validate(t CampaignType) error {
	hasToken := strings.TrimSpace(r.Token) != ""
	hasAmount := r.Amount != nil
	hasMultiplier := r.Multiplier != nil
	hasDetails := strings.TrimSpace(r.Details) != ""

	switch t {
	case TypeAirdrop, TypeTokenSale:
		if !hasToken {
			return &RewardFieldError{Field: "token", Reason: "is required for " + string(t)}
		}
		if !hasAmount {
			return &RewardFieldError{Field: "amount", Reason: "is required for " + string(t)}
		}
		if !r.Amount.IsPositive() {
			return &RewardFieldError{Field: "amount", Reason: "must be positive"}
		}
		if hasMultiplier {
			return &RewardFieldError{Field: "multiplier", Reason: "is not allowed for " + string(t)}
		}
		if hasDetails {
			return &RewardFieldError{Field: "details", Reason: "is not allowed for " + string(t)}
		}
	case TypeMiningBoost, TypeRewardsMultiplier:
		if !hasMultiplier {
			return &RewardFieldError{Field: "multiplier", Reason: "is required for " + string(t)}
		}
		if !r.Multiplier.IsPositive() {
			return &RewardFieldError{Field: "multiplier", Reason: "must be positive"}
		}
		if hasToken {
			return &RewardFieldError{Field: "token", Reason: "is not allowed for " + string(t)}
		}
		if hasAmount {
			return &RewardFieldError{Field: "amount", Reason: "is not allowed for " + string(t)}
		}
		if hasDetails {
			return &RewardFieldError{Field: "details", Reason: "is not allowed for " + string(t)}
		}
	case TypeSpecialEvent, TypeNetworkEvent:
		if !hasDetails {
			return &RewardFieldError{Field: "details", Reason: "is required for " + string(t)}
		}
		if hasToken {
			return &RewardFieldError{Field: "token", Reason: "is not allowed for " + string(t)}
		}
		if hasAmount {
			return &RewardFieldError{Field: "amount", Reason: "is not allowed for " + string(t)}
		}
		if hasMultiplier {
			return &RewardFieldError{Field: "multiplier", Reason: "is not allowed for " + string(t)}
		}
	default:
		return &RewardFieldError{Field: "type", Reason: fmt.Sprintf("unknown campaign type %q", t)}
	}
	return nil
}

// TokenGrant returns the token and amount of an airdrop or token sale.
func (r RewardDetails) TokenGrant(t CampaignType) (string, decimal.Decimal, bool) {
	if (t != TypeAirdrop && t != TypeTokenSale) || r.Amount == nil {
		return "", decimal.Zero, false
	}
	return r.Token, *r.Amount, true
}

// RateMultiplier returns the multiplier of a mining boost or rewards multiplier.
func (r RewardDetails) RateMultiplier(t CampaignType) (decimal.Decimal, bool) {
	if (t != TypeMiningBoost && t != TypeRewardsMultiplier) || r.Multiplier == nil {
		return decimal.Zero, false
	}
	return *r.Multiplier, true
}

func (r RewardDetails) EventDetails(t CampaignType) (string, bool) {
	if t != TypeSpecialEvent && t != TypeNetworkEvent {
		return "", false
	}
	return r.Details, true
}

func (r RewardDetails) clone() RewardDetails {
	out := r
	if r.Amount != nil {
		amount := *r.Amount
		out.Amount = &amount
	}
	if r.Multiplier != nil {
		multiplier := *r.Multiplier
		out.Multiplier = &multiplier
	}
	return out
}
