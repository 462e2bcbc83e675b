package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

type Tab string

const (
	TabUpcoming Tab = "upcoming"
	TabActive   Tab = "active"
	TabPast     Tab = "past"
	TabAll      Tab = "all"
)

func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "":
		return TabAll, nil
	case TabUpcoming, TabActive, TabPast, TabAll:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// TabFor returns the tab a status is listed under. Paused campaigns stay on the active tab.
func TabFor(s model.Status) Tab {
	switch s {
	case model.StatusDraft, model.StatusScheduled:
		return TabUpcoming
	case model.StatusActive, model.StatusPaused:
		return TabActive
	case model.StatusCompleted, model.StatusCancelled:
		return TabPast
	}
	return TabAll
}

// Filter holds optional equality predicates; zero values match everything.
type Filter struct {
	Type   model.CampaignType
	Status model.Status
}

func (f Filter) match(c model.Campaign) bool {
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

// ListByTab returns copies of the campaigns on tab that satisfy filter, in the tab's order.
func ListByTab(records []model.Campaign, tab Tab, filter Filter) []model.Campaign {
	out := []model.Campaign{}
	for _, c := range records {
		if tab != TabAll && TabFor(c.Status) != tab {
			continue
		}
		if !filter.match(c) {
			continue
		}
		out = append(out, c.Clone())
	}
	SortForTab(out, tab)
	return out
}

func ListByStatus(records []model.Campaign, status model.Status) []model.Campaign {
	return ListByTab(records, TabFor(status), Filter{Status: status})
}

// SortForTab orders upcoming by start ascending, active by start descending, past by end
// descending and all by last update descending. Ties fall back to the id.
func SortForTab(list []model.Campaign, tab Tab) {
	var less func(a, b model.Campaign) bool
	switch tab {
	case TabUpcoming:
		less = func(a, b model.Campaign) bool { return a.StartDate.Before(b.StartDate) }
	case TabActive:
		less = func(a, b model.Campaign) bool { return a.StartDate.After(b.StartDate) }
	case TabPast:
		less = func(a, b model.Campaign) bool { return pastKey(a).After(pastKey(b)) }
	default:
		less = func(a, b model.Campaign) bool { return a.LastUpdated.After(b.LastUpdated) }
	}
	sort.SliceStable(list, func(i, j int) bool {
		if less(list[i], list[j]) {
			return true
		}
		if less(list[j], list[i]) {
			return false
		}
		return list[i].ID < list[j].ID
	})
}

// pastKey uses the end date, or the last update for a campaign that never had one
// (cancelled open-ended campaigns).
func pastKey(c model.Campaign) time.Time {
	if c.EndDate != nil {
		return *c.EndDate
	}
	return c.LastUpdated
}

// CampaignsOnDate returns every campaign whose [start, end ?? start] span covers the calendar
// day of date, inclusive on both ends. Days are taken in date's location.
func CampaignsOnDate(records []model.Campaign, date time.Time) []model.Campaign {
	loc := date.Location()
	day := civilDay(date, loc)
	out := []model.Campaign{}
	for _, c := range records {
		if c.StartDate.IsZero() {
			continue
		}
		first := civilDay(c.StartDate, loc)
		last := first
		if c.EndDate != nil {
			last = civilDay(*c.EndDate, loc)
		}
		if !day.Before(first) && !day.After(last) {
			out = append(out, c.Clone())
		}
	}
	SortForTab(out, TabUpcoming)
	return out
}

func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
