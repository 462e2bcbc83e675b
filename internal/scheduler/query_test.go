package scheduler_test

import (
	"testing"
	"time"

	"github.com/unclebandit/campaign-scheduler/internal/model"
	"github.com/unclebandit/campaign-scheduler/internal/scheduler"
)

func ids(list []model.Campaign) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fixture() []model.Campaign {
	d := date
	list := []model.Campaign{
		boost("up-late", model.StatusScheduled, d("2024-03-01T00:00:00Z"), nil),
		boost("up-early", model.StatusDraft, d("2024-02-01T00:00:00Z"), nil),
		boost("act-old", model.StatusActive, d("2024-01-01T00:00:00Z"), nil),
		boost("act-new", model.StatusPaused, d("2024-01-05T00:00:00Z"), nil),
		boost("past-a", model.StatusCompleted, d("2023-01-01T00:00:00Z"), ptr(d("2023-02-01T00:00:00Z"))),
		boost("past-b", model.StatusCancelled, d("2023-03-01T00:00:00Z"), ptr(d("2023-04-01T00:00:00Z"))),
	}
	for i := range list {
		list[i].LastUpdated = d("2024-01-01T00:00:00Z").Add(time.Duration(i) * time.Hour)
	}
	list[1].Type = model.TypeAirdrop
	return list
}

func TestListByTabOrdering(t *testing.T) {
	tests := []struct {
		tab  scheduler.Tab
		want []string
	}{
		{scheduler.TabUpcoming, []string{"up-early", "up-late"}},
		{scheduler.TabActive, []string{"act-new", "act-old"}},
		{scheduler.TabPast, []string{"past-b", "past-a"}},
		{scheduler.TabAll, []string{"past-b", "past-a", "act-new", "act-old", "up-early", "up-late"}},
	}
	for _, tt := range tests {
		got := ids(scheduler.ListByTab(fixture(), tt.tab, scheduler.Filter{}))
		if !equalIDs(got, tt.want) {
			t.Errorf("tab %s: expected %v, got %v", tt.tab, tt.want, got)
		}
	}
}

func TestListByTabFilters(t *testing.T) {
	got := ids(scheduler.ListByTab(fixture(), scheduler.TabAll, scheduler.Filter{Type: model.TypeAirdrop}))
	if !equalIDs(got, []string{"up-early"}) {
		t.Errorf("type filter: got %v", got)
	}
	got = ids(scheduler.ListByTab(fixture(), scheduler.TabUpcoming, scheduler.Filter{Status: model.StatusScheduled}))
	if !equalIDs(got, []string{"up-late"}) {
		t.Errorf("status filter: got %v", got)
	}
	got = ids(scheduler.ListByStatus(fixture(), model.StatusCancelled))
	if !equalIDs(got, []string{"past-b"}) {
		t.Errorf("list by status: got %v", got)
	}
}

func TestListReturnsCopies(t *testing.T) {
	records := fixture()
	out := scheduler.ListByTab(records, scheduler.TabAll, scheduler.Filter{})
	out[0].Name = "mutated"
	for _, c := range records {
		if c.Name == "mutated" {
			t.Fatal("query leaked a reference to the owner's record")
		}
	}
}

func TestParseTab(t *testing.T) {
	if tab, err := scheduler.ParseTab(""); err != nil || tab != scheduler.TabAll {
		t.Errorf("empty tab should mean all, got %s %v", tab, err)
	}
	if _, err := scheduler.ParseTab("archive"); err == nil {
		t.Error("expected error for unknown tab")
	}
}

func TestCampaignsOnDate(t *testing.T) {
	spanning := boost("jan", model.StatusActive, date("2024-01-10T00:00:00Z"), ptr(date("2024-01-17T00:00:00Z")))
	feb := boost("feb", model.StatusScheduled, date("2024-02-01T00:00:00Z"), nil)
	open := boost("open", model.StatusActive, date("2024-01-15T18:00:00Z"), nil)

	for _, status := range []model.Status{model.StatusScheduled, model.StatusActive, model.StatusCompleted} {
		spanning.Status = status
		got := ids(scheduler.CampaignsOnDate([]model.Campaign{spanning, feb, open}, date("2024-01-15T00:00:00Z")))
		if !equalIDs(got, []string{"jan", "open"}) {
			t.Errorf("status %s: expected [jan open], got %v", status, got)
		}
	}

	boundaries := []string{"2024-01-10T00:00:00Z", "2024-01-17T23:59:00Z"}
	for _, b := range boundaries {
		if got := ids(scheduler.CampaignsOnDate([]model.Campaign{spanning}, date(b))); len(got) != 1 {
			t.Errorf("expected inclusive match on %s", b)
		}
	}
	if got := scheduler.CampaignsOnDate([]model.Campaign{open}, date("2024-01-16T00:00:00Z")); len(got) != 0 {
		t.Errorf("open-ended campaign should only match its start day, got %v", ids(got))
	}
}
