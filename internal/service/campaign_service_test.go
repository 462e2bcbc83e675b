package service_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	appErrors "github.com/unclebandit/campaign-scheduler/internal/errors"
	"github.com/unclebandit/campaign-scheduler/internal/model"
	"github.com/unclebandit/campaign-scheduler/internal/repository"
	"github.com/unclebandit/campaign-scheduler/internal/scheduler"
	"github.com/unclebandit/campaign-scheduler/internal/service"
)

// --- Fakes ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "id-" + strconv.Itoa(g.n)
}

type recordingQueue struct {
	mu     sync.Mutex
	events []model.TransitionEvent
}

func (q *recordingQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, payload.(model.TransitionEvent))
	return nil
}

func (q *recordingQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func (q *recordingQueue) Events() []model.TransitionEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]model.TransitionEvent(nil), q.events...)
}

type flakyStore struct {
	*repository.MemoryStore
	fail bool
}

func (s *flakyStore) Save(ctx context.Context, campaigns []model.Campaign) error {
	if s.fail {
		return errors.New("store unavailable")
	}
	return s.MemoryStore.Save(ctx, campaigns)
}

type fixture struct {
	svc   *service.CampaignService
	store *repository.MemoryStore
	clock *fakeClock
	queue *recordingQueue
	hook  *test.Hook
}

func newFixture(t *testing.T, now time.Time, seed ...model.Campaign) fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	if len(seed) > 0 {
		if err := store.Save(context.Background(), seed); err != nil {
			t.Fatal(err)
		}
	}
	log, hook := test.NewNullLogger()
	q := &recordingQueue{}
	clock := &fakeClock{now: now}
	svc := service.NewCampaignService(store, q, log)
	svc.Clock = clock
	svc.IDs = &seqIDs{}
	return fixture{svc: svc, store: store, clock: clock, queue: q, hook: hook}
}

// --- Helpers ---

var jan10 = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func tp(t time.Time) *time.Time { return &t }

func boostInput(start time.Time, end *time.Time) service.CampaignInput {
	m := decimal.NewFromFloat(1.5)
	return service.CampaignInput{
		Name:               "Hashrate weekend",
		Type:               model.TypeMiningBoost,
		StartDate:          &start,
		EndDate:            end,
		DistributionMethod: model.DistributionAllUsers,
		RewardDetails:      model.RewardDetails{Multiplier: &m},
	}
}

func stored(t *testing.T, store *repository.MemoryStore) []model.Campaign {
	t.Helper()
	list, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func mustCreate(t *testing.T, svc *service.CampaignService, in service.CampaignInput) model.Campaign {
	t.Helper()
	c, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return c
}

// --- Tests ---

func TestCreatePicksInitialStatus(t *testing.T) {
	f := newFixture(t, jan10)
	ctx := context.Background()

	future := mustCreate(t, f.svc, boostInput(jan10.Add(time.Hour), nil))
	if future.Status != model.StatusScheduled {
		t.Errorf("expected scheduled, got %s", future.Status)
	}
	past := mustCreate(t, f.svc, boostInput(jan10.Add(-time.Hour), nil))
	if past.Status != model.StatusDraft {
		t.Errorf("expected draft, got %s", past.Status)
	}
	if !past.CreatedAt.Equal(jan10) || !past.LastUpdated.Equal(jan10) {
		t.Errorf("expected timestamps at now, got %s / %s", past.CreatedAt, past.LastUpdated)
	}
	if future.ID == past.ID || future.ID == "" {
		t.Errorf("expected distinct ids, got %q %q", future.ID, past.ID)
	}
	if n := len(stored(t, f.store)); n != 2 {
		t.Errorf("expected 2 persisted campaigns, got %d", n)
	}
	if n := len(f.queue.Events()); n != 2 {
		t.Errorf("expected 2 published events, got %d", n)
	}

	status := model.StatusActive
	in := boostInput(jan10, nil)
	in.Status = &status
	_, err := f.svc.Create(ctx, in)
	var verr *appErrors.ValidationError
	if !errors.As(err, &verr) || verr.Field != "status" {
		t.Errorf("expected status validation error, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, jan10)
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name   string
		mutate func(in *service.CampaignInput)
		field  string
	}{
		{"missing name", func(in *service.CampaignInput) { in.Name = "" }, "name"},
		{"blank name", func(in *service.CampaignInput) { in.Name = "   " }, "name"},
		{"unknown type", func(in *service.CampaignInput) { in.Type = "giveaway" }, "type"},
		{"missing start", func(in *service.CampaignInput) { in.StartDate = nil }, "start_date"},
		{"zero start", func(in *service.CampaignInput) { in.StartDate = &time.Time{} }, "start_date"},
		{"end before start", func(in *service.CampaignInput) { in.EndDate = tp(jan10.Add(-time.Hour)) }, "end_date"},
		{"unknown distribution", func(in *service.CampaignInput) { in.DistributionMethod = "vip" }, "distribution_method"},
		{"recurring without pattern", func(in *service.CampaignInput) { in.IsRecurring = true }, "recurring_pattern"},
		{"pattern without recurring", func(in *service.CampaignInput) { in.RecurringPattern = model.RecurDaily }, "recurring_pattern"},
		{"bad pattern", func(in *service.CampaignInput) {
			in.IsRecurring = true
			in.RecurringPattern = "hourly"
		}, "recurring_pattern"},
		{"tier without audience", func(in *service.CampaignInput) {
			in.DistributionMethod = model.DistributionSubscriptionTier
		}, "target_audience"},
		{"blank audience entry", func(in *service.CampaignInput) { in.TargetAudience = []string{""} }, "target_audience[0]"},
		{"reward field for other type", func(in *service.CampaignInput) { in.RewardDetails.Amount = &amount }, "reward_details.amount"},
		{"missing multiplier", func(in *service.CampaignInput) { in.RewardDetails = model.RewardDetails{} }, "reward_details.multiplier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := boostInput(jan10, tp(jan10.AddDate(0, 0, 7)))
			tt.mutate(&in)
			_, err := f.svc.Create(context.Background(), in)
			var verr *appErrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s (%s)", tt.field, verr.Field, verr.Reason)
			}
		})
	}
	if n := len(stored(t, f.store)); n != 0 {
		t.Errorf("rejected campaigns must not be persisted, got %d", n)
	}
}

func TestUserTransitions(t *testing.T) {
	tests := []struct {
		from  model.Status
		start time.Time
		op    string
		want  model.Status
		ok    bool
	}{
		{model.StatusDraft, jan10.Add(-time.Hour), "activate", model.StatusActive, true},
		{model.StatusPaused, jan10.Add(-time.Hour), "activate", model.StatusActive, true},
		{model.StatusScheduled, jan10.Add(time.Hour), "activate", "", false},
		{model.StatusCompleted, jan10.Add(-time.Hour), "activate", "", false},
		{model.StatusActive, jan10.Add(-time.Hour), "pause", model.StatusPaused, true},
		{model.StatusDraft, jan10.Add(-time.Hour), "pause", "", false},
		{model.StatusDraft, jan10.Add(time.Hour), "schedule", model.StatusScheduled, true},
		{model.StatusDraft, jan10.Add(-time.Hour), "schedule", "", false},
		{model.StatusActive, jan10.Add(-time.Hour), "cancel", model.StatusCancelled, true},
		{model.StatusScheduled, jan10.Add(time.Hour), "cancel", model.StatusCancelled, true},
		{model.StatusCancelled, jan10.Add(-time.Hour), "cancel", "", false},
		{model.StatusCompleted, jan10.Add(-time.Hour), "cancel", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.op, func(t *testing.T) {
			seed := model.Campaign{ID: "c1", Name: "seed", Type: model.TypeMiningBoost, Status: tt.from, StartDate: tt.start}
			f := newFixture(t, jan10, seed)
			ops := map[string]func(context.Context, string) (model.Campaign, error){
				"activate": f.svc.Activate,
				"pause":    f.svc.Pause,
				"schedule": f.svc.Schedule,
				"cancel":   f.svc.Cancel,
			}

			got, err := ops[tt.op](context.Background(), "c1")
			if !tt.ok {
				var terr *appErrors.InvalidTransitionError
				if !errors.As(err, &terr) {
					t.Fatalf("expected InvalidTransitionError, got %v", err)
				}
				if s := stored(t, f.store); len(s) > 0 && s[0].Status != tt.from {
					t.Errorf("state changed on rejected transition: %s", s[0].Status)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Status != tt.want || !got.LastUpdated.Equal(jan10) {
				t.Errorf("expected %s at %s, got %s at %s", tt.want, jan10, got.Status, got.LastUpdated)
			}
			if s := stored(t, f.store); s[0].Status != tt.want {
				t.Errorf("expected persisted %s, got %s", tt.want, s[0].Status)
			}
			evs := f.queue.Events()
			if len(evs) != 1 || evs[0].From != tt.from || evs[0].Trigger != model.TriggerUser {
				t.Errorf("unexpected events %+v", evs)
			}
		})
	}
}

func TestUnknownCampaign(t *testing.T) {
	f := newFixture(t, jan10)
	ctx := context.Background()
	var nf *appErrors.NotFoundError

	if _, err := f.svc.Activate(ctx, "nope"); !errors.As(err, &nf) {
		t.Errorf("activate: expected NotFoundError, got %v", err)
	}
	if err := f.svc.Delete(ctx, "nope"); !errors.As(err, &nf) {
		t.Errorf("delete: expected NotFoundError, got %v", err)
	}
	if _, err := f.svc.Edit(ctx, "nope", boostInput(jan10, nil)); !errors.As(err, &nf) {
		t.Errorf("edit: expected NotFoundError, got %v", err)
	}
	if _, err := f.svc.Get(ctx, "nope"); !errors.As(err, &nf) {
		t.Errorf("get: expected NotFoundError, got %v", err)
	}
}

func TestEditRejectsDirectStatusChange(t *testing.T) {
	done := model.Campaign{ID: "c1", Name: "done", Type: model.TypeMiningBoost, Status: model.StatusCompleted,
		StartDate: jan10.AddDate(0, 0, -7), EndDate: tp(jan10.AddDate(0, 0, -1))}
	f := newFixture(t, jan10, done)

	in := boostInput(jan10.AddDate(0, 0, -7), tp(jan10.AddDate(0, 0, -1)))
	active := model.StatusActive
	in.Status = &active
	_, err := f.svc.Edit(context.Background(), "c1", in)
	var terr *appErrors.InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if got := stored(t, f.store)[0].Status; got != model.StatusCompleted {
		t.Errorf("status must stay completed, got %s", got)
	}
}

func TestEditKeepsIdentityAndBumpsLastUpdated(t *testing.T) {
	f := newFixture(t, jan10)
	c := mustCreate(t, f.svc, boostInput(jan10.AddDate(0, 0, 3), nil))

	f.clock.Set(jan10.Add(time.Hour))
	in := boostInput(jan10.AddDate(0, 0, 5), tp(jan10.AddDate(0, 0, 6)))
	in.Name = "Renamed"
	same := c.Status
	in.Status = &same

	got, err := f.svc.Edit(context.Background(), c.ID, in)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != c.ID || !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("id and created_at must not change")
	}
	if got.Name != "Renamed" || got.Status != model.StatusScheduled {
		t.Errorf("unexpected edit result %+v", got)
	}
	if !got.LastUpdated.Equal(jan10.Add(time.Hour)) {
		t.Errorf("expected last_updated bumped, got %s", got.LastUpdated)
	}
}

func TestDelete(t *testing.T) {
	seed := []model.Campaign{
		{ID: "live", Name: "live", Status: model.StatusActive, StartDate: jan10},
		{ID: "done", Name: "done", Status: model.StatusCompleted, StartDate: jan10, EndDate: tp(jan10)},
	}
	f := newFixture(t, jan10, seed...)
	ctx := context.Background()

	if err := f.svc.Delete(ctx, "live"); err != nil {
		t.Fatal(err)
	}
	var terr *appErrors.InvalidTransitionError
	if err := f.svc.Delete(ctx, "done"); !errors.As(err, &terr) {
		t.Errorf("expected terminal delete to be rejected, got %v", err)
	}
	left := stored(t, f.store)
	if len(left) != 1 || left[0].ID != "done" {
		t.Errorf("expected only done to remain, got %+v", left)
	}
}

func TestReadsEvaluateLazily(t *testing.T) {
	f := newFixture(t, jan10.Add(-time.Hour))
	c := mustCreate(t, f.svc, boostInput(jan10, tp(jan10.AddDate(0, 0, 7))))
	if c.Status != model.StatusScheduled {
		t.Fatalf("expected scheduled, got %s", c.Status)
	}

	f.clock.Set(jan10)
	got, err := f.svc.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusActive {
		t.Errorf("expected active on read, got %s", got.Status)
	}

	f.clock.Set(jan10.AddDate(0, 0, 10))
	past, err := f.svc.ListByTab(context.Background(), scheduler.TabPast, scheduler.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(past) != 1 || past[0].Status != model.StatusCompleted {
		t.Errorf("expected completed on past tab, got %+v", past)
	}
	if got := stored(t, f.store)[0].Status; got != model.StatusCompleted {
		t.Errorf("expected evaluation persisted, got %s", got)
	}
}

func TestUserActionSeesLatestState(t *testing.T) {
	f := newFixture(t, jan10.Add(-time.Hour))
	c := mustCreate(t, f.svc, boostInput(jan10, nil))

	// Start passed without a tick; pausing must see the campaign as active.
	f.clock.Set(jan10.Add(time.Minute))
	got, err := f.svc.Pause(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if got.Status != model.StatusPaused {
		t.Errorf("expected paused, got %s", got.Status)
	}
}

func TestEvaluateAvoidsRedundantWrites(t *testing.T) {
	seed := model.Campaign{ID: "c1", Name: "c1", Type: model.TypeMiningBoost, Status: model.StatusScheduled,
		StartDate: jan10, EndDate: tp(jan10.AddDate(0, 0, 7))}
	f := newFixture(t, jan10.Add(-time.Hour), seed)
	ctx := context.Background()
	baseline := f.store.Saves()

	f.svc.Evaluate(ctx)
	f.svc.Evaluate(ctx)
	if f.store.Saves() != baseline {
		t.Fatalf("expected no writes before start, got %d", f.store.Saves()-baseline)
	}

	f.clock.Set(jan10)
	if res := f.svc.Evaluate(ctx); len(res.Events) != 1 {
		t.Fatalf("expected one transition, got %+v", res.Events)
	}
	if res := f.svc.Evaluate(ctx); res.Changed() {
		t.Fatalf("expected second tick to be a no-op, got %+v", res.Events)
	}
	if f.store.Saves() != baseline+1 {
		t.Errorf("expected exactly one write, got %d", f.store.Saves()-baseline)
	}
}

func TestEvaluateCreatesSingleRecurrence(t *testing.T) {
	seed := model.Campaign{ID: "w", Name: "weekly", Type: model.TypeMiningBoost, Status: model.StatusActive,
		StartDate: jan10, EndDate: tp(jan10.AddDate(0, 0, 2)), IsRecurring: true, RecurringPattern: model.RecurWeekly}
	f := newFixture(t, jan10.AddDate(0, 0, 3), seed)
	ctx := context.Background()

	f.svc.Evaluate(ctx)
	f.svc.Evaluate(ctx)

	list := stored(t, f.store)
	if len(list) != 2 {
		t.Fatalf("expected original plus one clone, got %d", len(list))
	}
	clone := list[1]
	if !clone.StartDate.Equal(jan10.AddDate(0, 0, 7)) || clone.Status != model.StatusScheduled {
		t.Errorf("unexpected clone %+v", clone)
	}

	var recurrence int
	for _, ev := range f.queue.Events() {
		if ev.ID == "" {
			t.Errorf("published event without id: %+v", ev)
		}
		if ev.Trigger == model.TriggerRecurrence {
			recurrence++
		}
	}
	if recurrence != 1 {
		t.Errorf("expected one recurrence event, got %d", recurrence)
	}
}

func TestEvaluateLogsCorruptRecords(t *testing.T) {
	seed := []model.Campaign{
		{ID: "broken", Name: "broken", Status: model.StatusScheduled},
		{ID: "ok", Name: "ok", Status: model.StatusScheduled, StartDate: jan10},
	}
	f := newFixture(t, jan10, seed...)

	res := f.svc.Evaluate(context.Background())
	if len(res.Skipped) != 1 || res.Skipped[0].CampaignID != "broken" {
		t.Fatalf("expected broken to be skipped, got %+v", res.Skipped)
	}

	var warned bool
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["campaign_id"] == "broken" {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning for the skipped record")
	}
	if got, _ := f.svc.Get(context.Background(), "ok"); got.Status != model.StatusActive {
		t.Errorf("healthy record must transition, got %s", got.Status)
	}
}

func TestSaveFailure(t *testing.T) {
	mem := repository.NewMemoryStore()
	seed := model.Campaign{ID: "c1", Name: "c1", Type: model.TypeMiningBoost, Status: model.StatusScheduled, StartDate: jan10}
	if err := mem.Save(context.Background(), []model.Campaign{seed}); err != nil {
		t.Fatal(err)
	}
	store := &flakyStore{MemoryStore: mem}
	log, _ := test.NewNullLogger()
	clock := &fakeClock{now: jan10.Add(-time.Hour)}
	svc := service.NewCampaignService(store, nil, log)
	svc.Clock = clock
	svc.IDs = &seqIDs{}
	ctx := context.Background()

	store.fail = true
	if _, err := svc.Cancel(ctx, "c1"); err == nil {
		t.Fatal("expected cancel to surface the store error")
	}
	if got, _ := svc.Get(ctx, "c1"); got.Status != model.StatusScheduled {
		t.Fatalf("failed save must leave state unchanged, got %s", got.Status)
	}

	clock.Set(jan10)
	svc.Evaluate(ctx)
	if got, _ := svc.Get(ctx, "c1"); got.Status != model.StatusActive {
		t.Fatalf("evaluation proceeds in memory, got %s", got.Status)
	}

	store.fail = false
	svc.Evaluate(ctx)
	list, _ := mem.Load(ctx)
	if list[0].Status != model.StatusActive {
		t.Errorf("expected pending state flushed on next tick, got %s", list[0].Status)
	}
}

func TestListCampaignsPagination(t *testing.T) {
	var seed []model.Campaign
	for i := 1; i <= 25; i++ {
		seed = append(seed, model.Campaign{
			ID:        "c" + strconv.Itoa(i),
			Name:      "Campaign " + strconv.Itoa(i),
			Type:      model.TypeAirdrop,
			Status:    model.StatusDraft,
			StartDate: jan10.AddDate(0, 0, i),
		})
	}
	f := newFixture(t, jan10, seed...)

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		list, pagination, err := f.svc.ListCampaigns(context.Background(), scheduler.TabUpcoming, scheduler.Filter{}, page, 10)
		if err != nil {
			t.Fatal(err)
		}
		if pagination["total_count"] != 25 || pagination["total_pages"] != 3 {
			t.Errorf("unexpected pagination %v", pagination)
		}
		for _, c := range list {
			if seen[c.ID] {
				t.Errorf("duplicate campaign %s across pages", c.ID)
			}
			seen[c.ID] = true
		}
	}
	if len(seen) != 25 {
		t.Errorf("expected 25 unique campaigns, got %d", len(seen))
	}

	list, _, _ := f.svc.ListCampaigns(context.Background(), scheduler.TabUpcoming, scheduler.Filter{}, 9, 10)
	if len(list) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(list))
	}

	list, pagination, err := f.svc.ListCampaigns(context.Background(), scheduler.TabAll, scheduler.Filter{}, 1<<62, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 || pagination["total_count"] != 25 {
		t.Errorf("expected empty page for huge page number, got %d campaigns, %v", len(list), pagination)
	}
}

func TestLookupUsesExactID(t *testing.T) {
	seed := model.Campaign{ID: "c1", Name: "c1", Status: model.StatusActive, StartDate: jan10}
	f := newFixture(t, jan10, seed)
	ctx := context.Background()
	var nf *appErrors.NotFoundError

	if _, err := f.svc.Get(ctx, " c1"); !errors.As(err, &nf) {
		t.Errorf("get: expected NotFoundError for padded id, got %v", err)
	}
	if _, err := f.svc.Pause(ctx, " c1"); !errors.As(err, &nf) {
		t.Errorf("pause: expected NotFoundError for padded id, got %v", err)
	}
}

func TestConcurrentEvaluationAndUserActions(t *testing.T) {
	var seed []model.Campaign
	for i := 0; i < 10; i++ {
		seed = append(seed, model.Campaign{
			ID:        "c" + strconv.Itoa(i),
			Name:      "Campaign " + strconv.Itoa(i),
			Type:      model.TypeMiningBoost,
			Status:    model.StatusScheduled,
			StartDate: jan10,
			EndDate:   tp(jan10.AddDate(0, 0, 7)),
		})
	}
	f := newFixture(t, jan10.Add(-time.Hour), seed...)
	ctx := context.Background()
	f.clock.Set(jan10)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 20; n++ {
				f.svc.Evaluate(ctx)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		id := "c" + strconv.Itoa(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Pause needs the campaign active, so it only succeeds once evaluation has run.
			for n := 0; n < 5; n++ {
				if _, err := f.svc.Pause(ctx, id); err == nil {
					f.svc.Activate(ctx, id)
				}
			}
			f.svc.Pause(ctx, id)
		}()
	}
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 20; n++ {
				if _, _, err := f.svc.ListCampaigns(ctx, scheduler.TabAll, scheduler.Filter{}, 1, 5); err != nil {
					t.Errorf("list: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	list := stored(t, f.store)
	if len(list) != 10 {
		t.Fatalf("expected 10 campaigns, got %d", len(list))
	}
	for _, c := range list {
		if c.Status != model.StatusPaused {
			t.Errorf("campaign %s: expected paused, got %s", c.ID, c.Status)
		}
	}
	if res := f.svc.Evaluate(ctx); res.Changed() {
		t.Errorf("expected a settled collection, got %+v", res.Events)
	}
}

func TestRecordStats(t *testing.T) {
	seed := model.Campaign{ID: "c1", Name: "c1", Status: model.StatusActive, StartDate: jan10}
	f := newFixture(t, jan10, seed)
	ctx := context.Background()

	got, err := f.svc.RecordStats(ctx, "c1", model.Stats{Participants: 10, TotalDistributed: decimal.NewFromInt(50), CompletionRate: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if got.Stats == nil || got.Stats.Participants != 10 || got.Status != model.StatusActive {
		t.Errorf("unexpected result %+v", got)
	}

	_, err = f.svc.RecordStats(ctx, "c1", model.Stats{CompletionRate: 2})
	var verr *appErrors.ValidationError
	if !errors.As(err, &verr) || verr.Field != "completion_rate" {
		t.Errorf("expected completion_rate validation error, got %v", err)
	}
}

func TestListByStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t, jan10)
	var verr *appErrors.ValidationError
	if _, err := f.svc.ListByStatus(context.Background(), "archived"); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
