// internal/service/validation.go
package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/campaign-scheduler/internal/errors"
	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// CampaignInput is the editable part of a campaign, used by both create and edit.
type CampaignInput struct {
	Name               string                   `json:"name" validate:"required,max=120"`
	Description        string                   `json:"description" validate:"max=2000"`
	Type               model.CampaignType       `json:"type" validate:"required,oneof=airdrop mining-boost rewards-multiplier token-sale special-event network-event"`
	StartDate          *time.Time               `json:"start_date" validate:"required"`
	EndDate            *time.Time               `json:"end_date,omitempty"`
	DistributionMethod model.DistributionMethod `json:"distribution_method" validate:"required,oneof=all-users subscription-tier mining-power random-lottery staking-amount"`
	TargetAudience     []string                 `json:"target_audience,omitempty" validate:"dive,required"`
	RewardDetails      model.RewardDetails      `json:"reward_details" validate:"-"`
	IsRecurring        bool                     `json:"is_recurring"`
	RecurringPattern   model.RecurringPattern   `json:"recurring_pattern,omitempty" validate:"omitempty,oneof=daily weekly monthly"`

	// Status is only accepted on edit, and only when it equals the current status.
	// Status changes go through activate, pause, schedule and cancel.
	Status *model.Status `json:"status,omitempty" validate:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateInput returns a *appErrors.ValidationError naming the first offending field.
func ValidateInput(in CampaignInput) error {
	// A blank name must fail "required" rather than be stored empty after apply trims it.
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return appErrors.NewValidation(fieldName(fe), describe(fe))
		}
		return appErrors.NewValidation("campaign", err.Error())
	}

	if in.StartDate.IsZero() {
		return appErrors.NewValidation("start_date", "is required")
	}
	if in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return appErrors.NewValidation("end_date", "must not be before start_date")
	}
	if in.IsRecurring && in.RecurringPattern == "" {
		return appErrors.NewValidation("recurring_pattern", "is required for recurring campaigns")
	}
	if !in.IsRecurring && in.RecurringPattern != "" {
		return appErrors.NewValidation("recurring_pattern", "must be empty unless is_recurring is set")
	}
	if in.DistributionMethod == model.DistributionSubscriptionTier && len(in.TargetAudience) == 0 {
		return appErrors.NewValidation("target_audience", "is required for subscription-tier distribution")
	}
	if err := in.RewardDetails.Validate(in.Type); err != nil {
		var rerr *model.RewardFieldError
		if errors.As(err, &rerr) {
			return appErrors.NewValidation("reward_details."+rerr.Field, rerr.Reason)
		}
		return appErrors.NewValidation("reward_details", err.Error())
	}
	return nil
}

// fieldName keeps the json path but drops the struct name prefix, so
// "CampaignInput.target_audience[0]" becomes "target_audience[0]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// apply copies the input onto c, leaving id, status, stats and timestamps alone.
func (in CampaignInput) apply(c *model.Campaign) {
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Type = in.Type
	c.StartDate = *in.StartDate
	c.EndDate = nil
	if in.EndDate != nil {
		end := *in.EndDate
		c.EndDate = &end
	}
	c.DistributionMethod = in.DistributionMethod
	c.TargetAudience = append([]string(nil), in.TargetAudience...)
	c.RewardDetails = in.RewardDetails
	c.IsRecurring = in.IsRecurring
	c.RecurringPattern = in.RecurringPattern
}
