// Package scheduler holds the time-driven campaign lifecycle. Everything here is a pure
// function of the records and the instant it is given: no I/O, no clocks, no locks. The
// owning service serializes calls and persists the result.
package scheduler

import (
	"fmt"
	"time"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// Skipped is a record the evaluator could not safely transition.
type Skipped struct {
	CampaignID string
	Reason     string
}

type Result struct {
	Campaigns []model.Campaign
	// Events carry no ID; the caller assigns one when publishing.
	Events  []model.TransitionEvent
	Skipped []Skipped
}

// Changed reports whether the evaluation produced anything worth persisting.
func (r Result) Changed() bool {
	return len(r.Events) > 0
}

// Evaluate applies scheduled→active and then active→completed to every non-terminal record.
// A completed recurring campaign yields exactly one clone one period ahead. records is not
// modified. newID is only called for recurrence clones.
func Evaluate(records []model.Campaign, now time.Time, newID func() string) Result {
	res := Result{Campaigns: make([]model.Campaign, 0, len(records))}
	var clones []model.Campaign

	for _, rec := range records {
		c := rec.Clone()
		if c.Status.Terminal() {
			res.Campaigns = append(res.Campaigns, c)
			continue
		}
		if reason := unsafeToEvaluate(c); reason != "" {
			res.Skipped = append(res.Skipped, Skipped{CampaignID: c.ID, Reason: reason})
			res.Campaigns = append(res.Campaigns, c)
			continue
		}

		if c.Status == model.StatusScheduled && !now.Before(c.StartDate) {
			res.Events = append(res.Events, transition(&c, model.StatusActive, now))
		}

		if c.Status == model.StatusActive && c.EndDate != nil && !now.Before(*c.EndDate) {
			res.Events = append(res.Events, transition(&c, model.StatusCompleted, now))

			if c.IsRecurring {
				next, err := NextRecurrence(c, now, newID())
				if err != nil {
					res.Skipped = append(res.Skipped, Skipped{CampaignID: c.ID, Reason: err.Error()})
				} else {
					clones = append(clones, next)
					res.Events = append(res.Events, model.TransitionEvent{
						CampaignID:   next.ID,
						CampaignName: next.Name,
						To:           next.Status,
						Trigger:      model.TriggerRecurrence,
						OccurredAt:   now,
					})
				}
			}
		}

		res.Campaigns = append(res.Campaigns, c)
	}

	res.Campaigns = append(res.Campaigns, clones...)
	return res
}

func transition(c *model.Campaign, to model.Status, now time.Time) model.TransitionEvent {
	ev := model.TransitionEvent{
		CampaignID:   c.ID,
		CampaignName: c.Name,
		From:         c.Status,
		To:           to,
		Trigger:      model.TriggerScheduler,
		OccurredAt:   now,
	}
	c.Status = to
	c.LastUpdated = now
	return ev
}

func unsafeToEvaluate(c model.Campaign) string {
	switch {
	case c.ID == "":
		return "missing id"
	case !c.Status.Valid():
		return fmt.Sprintf("unknown status %q", c.Status)
	case c.StartDate.IsZero():
		return "missing start_date"
	case c.EndDate != nil && c.EndDate.Before(c.StartDate):
		return "end_date before start_date"
	}
	return ""
}

// InitialStatus is the status a new occurrence starts in: scheduled when it begins in the
// future, draft otherwise.
func InitialStatus(start, now time.Time) model.Status {
	if start.After(now) {
		return model.StatusScheduled
	}
	return model.StatusDraft
}
