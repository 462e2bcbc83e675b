// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/campaign-scheduler/internal/errors"
	"github.com/unclebandit/campaign-scheduler/internal/model"
	"github.com/unclebandit/campaign-scheduler/internal/queue"
	"github.com/unclebandit/campaign-scheduler/internal/repository"
	"github.com/unclebandit/campaign-scheduler/internal/scheduler"
)

// CampaignService is the single owner of the campaign collection. User actions and the
// time-driven evaluation are serialized by mu; every operation evaluates against the latest
// state before acting, so a read never observes a stale status.
type CampaignService struct {
	Store repository.CampaignStore
	Queue queue.Queue // optional
	Topic string
	Clock Clock
	IDs   IDGenerator
	Log   logrus.FieldLogger

	mu        sync.Mutex
	campaigns []model.Campaign
	loaded    bool
	dirty     bool // an evaluation changed state the store has not accepted yet
}

func NewCampaignService(store repository.CampaignStore, q queue.Queue, log logrus.FieldLogger) *CampaignService {
	return &CampaignService{
		Store: store,
		Queue: q,
		Topic: queue.TopicTransitions,
		Clock: SystemClock{},
		IDs:   UUIDGenerator{},
		Log:   log,
	}
}

// Load replaces the in-memory collection with the store's content.
func (s *CampaignService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *CampaignService) loadLocked(ctx context.Context) error {
	campaigns, err := s.Store.Load(ctx)
	if err != nil {
		return err
	}
	s.campaigns = campaigns
	s.loaded = true
	s.dirty = false
	s.Log.WithField("count", len(campaigns)).Info("campaigns loaded")
	return nil
}

func (s *CampaignService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// Evaluate runs one tick against the clock. It never fails: store and queue problems are
// logged, and records that cannot be transitioned are skipped with a warning.
func (s *CampaignService) Evaluate(ctx context.Context) scheduler.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		s.Log.WithError(err).Error("evaluation skipped, campaigns not loaded")
		return scheduler.Result{}
	}
	return s.evaluateLocked(ctx)
}

func (s *CampaignService) evaluateLocked(ctx context.Context) scheduler.Result {
	now := s.Clock.Now()
	res := scheduler.Evaluate(s.campaigns, now, s.IDs.NewID)

	for _, sk := range res.Skipped {
		s.Log.WithFields(logrus.Fields{
			"campaign_id": sk.CampaignID,
			"reason":      sk.Reason,
		}).Warn("campaign skipped by evaluator")
	}

	if !res.Changed() && !s.dirty {
		return res
	}

	s.campaigns = res.Campaigns
	if err := s.Store.Save(ctx, s.campaigns); err != nil {
		s.dirty = true
		s.Log.WithError(err).Error("failed to persist evaluated campaigns")
	} else {
		s.dirty = false
	}

	for _, ev := range res.Events {
		s.Log.WithFields(logrus.Fields{
			"campaign_id": ev.CampaignID,
			"from_status": ev.From,
			"to_status":   ev.To,
			"trigger":     ev.Trigger,
		}).Info("campaign transitioned")
	}
	s.publish(res.Events)
	return res
}

func (s *CampaignService) publish(events []model.TransitionEvent) {
	if s.Queue == nil {
		return
	}
	for _, ev := range events {
		ev.ID = s.IDs.NewID()
		if err := s.Queue.Publish(s.Topic, ev); err != nil {
			s.Log.WithError(err).WithField("campaign_id", ev.CampaignID).Warn("failed to publish transition")
		}
	}
}

// begin loads if needed and brings the collection up to date. Callers hold mu.
func (s *CampaignService) begin(ctx context.Context) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	s.evaluateLocked(ctx)
	return nil
}

func (s *CampaignService) indexOf(id string) int {
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and only then swaps it in, so a failed save leaves state unchanged.
func (s *CampaignService) commit(ctx context.Context, next []model.Campaign, events ...model.TransitionEvent) error {
	if err := s.Store.Save(ctx, next); err != nil {
		return err
	}
	s.campaigns = next
	s.dirty = false
	s.publish(events)
	return nil
}

func (s *CampaignService) Create(ctx context.Context, in CampaignInput) (model.Campaign, error) {
	if in.Status != nil {
		return model.Campaign{}, appErrors.NewValidation("status", "is assigned on creation")
	}
	if err := ValidateInput(in); err != nil {
		return model.Campaign{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return model.Campaign{}, err
	}

	now := s.Clock.Now()
	c := model.Campaign{
		ID:          s.IDs.NewID(),
		CreatedAt:   now,
		LastUpdated: now,
	}
	in.apply(&c)
	c.Status = scheduler.InitialStatus(c.StartDate, now)

	next := append(cloneAll(s.campaigns), c)
	ev := model.TransitionEvent{CampaignID: c.ID, CampaignName: c.Name, To: c.Status, Trigger: model.TriggerUser, OccurredAt: now}
	if err := s.commit(ctx, next, ev); err != nil {
		return model.Campaign{}, err
	}

	s.Log.WithFields(logrus.Fields{"campaign_id": c.ID, "status": c.Status}).Info("campaign created")
	return c.Clone(), nil
}

func (s *CampaignService) Edit(ctx context.Context, id string, in CampaignInput) (model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return model.Campaign{}, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return model.Campaign{}, appErrors.NewCampaignNotFound(id)
	}
	current := s.campaigns[i]
	if in.Status != nil && *in.Status != current.Status {
		return model.Campaign{}, appErrors.NewInvalidTransition(id, string(current.Status), "set status to "+string(*in.Status))
	}
	if err := ValidateInput(in); err != nil {
		return model.Campaign{}, err
	}

	next := cloneAll(s.campaigns)
	c := &next[i]
	in.apply(c)
	c.LastUpdated = s.Clock.Now()
	if err := s.commit(ctx, next); err != nil {
		return model.Campaign{}, err
	}

	s.Log.WithField("campaign_id", id).Info("campaign edited")
	return c.Clone(), nil
}

// Delete removes a non-terminal campaign entirely.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return err
	}

	i := s.indexOf(id)
	if i < 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	if s.campaigns[i].Status.Terminal() {
		return appErrors.NewInvalidTransition(id, string(s.campaigns[i].Status), "delete")
	}

	next := make([]model.Campaign, 0, len(s.campaigns)-1)
	for j, c := range s.campaigns {
		if j != i {
			next = append(next, c.Clone())
		}
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.Log.WithField("campaign_id", id).Info("campaign deleted")
	return nil
}

type action string

const (
	actionActivate action = "activate"
	actionPause    action = "pause"
	actionSchedule action = "schedule"
	actionCancel   action = "cancel"
)

func (s *CampaignService) Activate(ctx context.Context, id string) (model.Campaign, error) {
	return s.change(ctx, id, actionActivate)
}

func (s *CampaignService) Pause(ctx context.Context, id string) (model.Campaign, error) {
	return s.change(ctx, id, actionPause)
}

// Schedule moves a draft whose start date is still ahead to scheduled.
func (s *CampaignService) Schedule(ctx context.Context, id string) (model.Campaign, error) {
	return s.change(ctx, id, actionSchedule)
}

func (s *CampaignService) Cancel(ctx context.Context, id string) (model.Campaign, error) {
	return s.change(ctx, id, actionCancel)
}

func (s *CampaignService) change(ctx context.Context, id string, act action) (model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return model.Campaign{}, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return model.Campaign{}, appErrors.NewCampaignNotFound(id)
	}
	now := s.Clock.Now()
	from := s.campaigns[i].Status

	to, ok := userTransition(s.campaigns[i], act, now)
	if !ok {
		return model.Campaign{}, appErrors.NewInvalidTransition(id, string(from), string(act))
	}

	next := cloneAll(s.campaigns)
	c := &next[i]
	c.Status = to
	c.LastUpdated = now
	ev := model.TransitionEvent{CampaignID: id, CampaignName: c.Name, From: from, To: to, Trigger: model.TriggerUser, OccurredAt: now}
	if err := s.commit(ctx, next, ev); err != nil {
		return model.Campaign{}, err
	}

	s.Log.WithFields(logrus.Fields{
		"campaign_id": id,
		"from_status": from,
		"to_status":   to,
		"action":      act,
	}).Info("campaign state changed")
	return c.Clone(), nil
}

func userTransition(c model.Campaign, act action, now time.Time) (model.Status, bool) {
	switch act {
	case actionActivate:
		if c.Status == model.StatusDraft || c.Status == model.StatusPaused {
			return model.StatusActive, true
		}
	case actionPause:
		if c.Status == model.StatusActive {
			return model.StatusPaused, true
		}
	case actionSchedule:
		if c.Status == model.StatusDraft && c.StartDate.After(now) {
			return model.StatusScheduled, true
		}
	case actionCancel:
		if !c.Status.Terminal() {
			return model.StatusCancelled, true
		}
	}
	return "", false
}

// RecordStats stores aggregates reported by the distribution collaborator.
func (s *CampaignService) RecordStats(ctx context.Context, id string, stats model.Stats) (model.Campaign, error) {
	if stats.Participants < 0 {
		return model.Campaign{}, appErrors.NewValidation("participants", "must not be negative")
	}
	if stats.TotalDistributed.IsNegative() {
		return model.Campaign{}, appErrors.NewValidation("total_distributed", "must not be negative")
	}
	if stats.CompletionRate < 0 || stats.CompletionRate > 1 {
		return model.Campaign{}, appErrors.NewValidation("completion_rate", "must be between 0 and 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return model.Campaign{}, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return model.Campaign{}, appErrors.NewCampaignNotFound(id)
	}
	next := cloneAll(s.campaigns)
	c := &next[i]
	c.Stats = &stats
	c.LastUpdated = s.Clock.Now()
	if err := s.commit(ctx, next); err != nil {
		return model.Campaign{}, err
	}
	return c.Clone(), nil
}

func (s *CampaignService) Get(ctx context.Context, id string) (model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return model.Campaign{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return model.Campaign{}, appErrors.NewCampaignNotFound(id)
	}
	return s.campaigns[i].Clone(), nil
}

func (s *CampaignService) ListByStatus(ctx context.Context, status model.Status) ([]model.Campaign, error) {
	if !status.Valid() {
		return nil, appErrors.NewValidation("status", fmt.Sprintf("unknown status %q", status))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	return scheduler.ListByStatus(s.campaigns, status), nil
}

func (s *CampaignService) ListByTab(ctx context.Context, tab scheduler.Tab, filter scheduler.Filter) ([]model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	return scheduler.ListByTab(s.campaigns, tab, filter), nil
}

// ListCampaigns pages through ListByTab
func (s *CampaignService) ListCampaigns(ctx context.Context, tab scheduler.Tab, filter scheduler.Filter, page, pageSize int) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	all, err := s.ListByTab(ctx, tab, filter)
	if err != nil {
		return nil, nil, err
	}

	total := len(all)
	// Compare before multiplying so a huge page cannot overflow.
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := min(start+pageSize, total)

	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": (total + pageSize - 1) / pageSize,
	}
	return all[start:end], pagination, nil
}

func (s *CampaignService) CampaignsOnDate(ctx context.Context, date time.Time) ([]model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	return scheduler.CampaignsOnDate(s.campaigns, date), nil
}

func cloneAll(list []model.Campaign) []model.Campaign {
	out := make([]model.Campaign, len(list), len(list)+1)
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}
