package scheduler

import (
	"fmt"
	"time"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// NextOccurrence advances t by one recurrence period. Monthly keeps the day of month and
// clamps to the last day when the target month is shorter (Jan 31 -> Feb 28/29).
func NextOccurrence(t time.Time, pattern model.RecurringPattern) (time.Time, error) {
	switch pattern {
	case model.RecurDaily:
		return t.AddDate(0, 0, 1), nil
	case model.RecurWeekly:
		return t.AddDate(0, 0, 7), nil
	case model.RecurMonthly:
		return addMonthClamped(t), nil
	}
	return time.Time{}, fmt.Errorf("unknown recurring pattern %q", pattern)
}

func addMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	target := m + 1
	if last := daysIn(y, target, t.Location()); d > last {
		d = last
	}
	return time.Date(y, target, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// daysIn handles month 13 through time.Date normalization.
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// NextRecurrence builds the next occurrence of a completed recurring campaign. The end date,
// when present, moves by the same offset as the start date. Stats start empty.
func NextRecurrence(c model.Campaign, now time.Time, id string) (model.Campaign, error) {
	start, err := NextOccurrence(c.StartDate, c.RecurringPattern)
	if err != nil {
		return model.Campaign{}, err
	}
	offset := start.Sub(c.StartDate)

	next := c.Clone()
	next.ID = id
	next.StartDate = start
	if c.EndDate != nil {
		end := c.EndDate.Add(offset)
		next.EndDate = &end
	}
	next.Status = InitialStatus(start, now)
	next.Stats = nil
	next.CreatedAt = now
	next.LastUpdated = now
	return next, nil
}
