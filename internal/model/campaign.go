// internal/model/campaign.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CampaignType string

const (
	TypeAirdrop           CampaignType = "airdrop"
	TypeMiningBoost       CampaignType = "mining-boost"
	TypeRewardsMultiplier CampaignType = "rewards-multiplier"
	TypeTokenSale         CampaignType = "token-sale"
	TypeSpecialEvent      CampaignType = "special-event"
	TypeNetworkEvent      CampaignType = "network-event"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusActive, StatusPaused, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type DistributionMethod string

const (
	DistributionAllUsers         DistributionMethod = "all-users"
	DistributionSubscriptionTier DistributionMethod = "subscription-tier"
	DistributionMiningPower      DistributionMethod = "mining-power"
	DistributionRandomLottery    DistributionMethod = "random-lottery"
	DistributionStakingAmount    DistributionMethod = "staking-amount"
)

type RecurringPattern string

const (
	RecurDaily   RecurringPattern = "daily"
	RecurWeekly  RecurringPattern = "weekly"
	RecurMonthly RecurringPattern = "monthly"
)

// Stats is written by the reward distribution collaborator and never by the scheduler.
type Stats struct {
	Participants     int             `json:"participants"`
	TotalDistributed decimal.Decimal `json:"total_distributed"`
	CompletionRate   float64         `json:"completion_rate"`
}

type Campaign struct {
	ID                 string             `db:"id" json:"id"`
	Name               string             `db:"name" json:"name"`
	Description        string             `db:"description" json:"description"`
	Type               CampaignType       `db:"type" json:"type"`
	Status             Status             `db:"status" json:"status"`
	StartDate          time.Time          `db:"start_date" json:"start_date"`
	EndDate            *time.Time         `db:"end_date" json:"end_date,omitempty"`
	DistributionMethod DistributionMethod `db:"distribution_method" json:"distribution_method"`
	TargetAudience     []string           `db:"target_audience" json:"target_audience,omitempty"`
	RewardDetails      RewardDetails      `db:"reward_details" json:"reward_details"`
	IsRecurring        bool               `db:"is_recurring" json:"is_recurring"`
	RecurringPattern   RecurringPattern   `db:"recurring_pattern" json:"recurring_pattern,omitempty"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	LastUpdated        time.Time          `db:"last_updated" json:"last_updated"`
	Stats              *Stats             `db:"stats" json:"stats,omitempty"`
}

// Clone returns a deep copy so callers can mutate it without touching the owner's collection.
func (c Campaign) Clone() Campaign {
	out := c
	if c.EndDate != nil {
		end := *c.EndDate
		out.EndDate = &end
	}
	if c.TargetAudience != nil {
		out.TargetAudience = append([]string(nil), c.TargetAudience...)
	}
	out.RewardDetails = c.RewardDetails.clone()
	if c.Stats != nil {
		stats := *c.Stats
		out.Stats = &stats
	}
	return out
}
