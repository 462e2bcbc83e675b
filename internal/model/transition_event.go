// internal/model/transition_event.go
package model

import "time"

type Trigger string

const (
	TriggerUser       Trigger = "user"
	TriggerScheduler  Trigger = "scheduler"
	TriggerRecurrence Trigger = "recurrence"
)

// TransitionEvent records one status change, published after the state is persisted.
type TransitionEvent struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	From         Status    `json:"from,omitempty"` // empty for recurrence clones
	To           Status    `json:"to"`
	Trigger      Trigger   `json:"trigger"`
	OccurredAt   time.Time `json:"occurred_at"`
}
