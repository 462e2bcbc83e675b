// internal/controller/campaign_controller.go
package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/campaign-scheduler/internal/errors"
	"github.com/unclebandit/campaign-scheduler/internal/handler"
	"github.com/unclebandit/campaign-scheduler/internal/model"
	"github.com/unclebandit/campaign-scheduler/internal/scheduler"
	"github.com/unclebandit/campaign-scheduler/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Log             logrus.FieldLogger
}

// Routes mounts campaign CRUD and the user transitions on r.
func (c *CampaignController) Routes(r chi.Router) {
	r.Post("/campaigns", c.CreateCampaign)
	r.Get("/campaigns", c.ListCampaigns)
	r.Put("/campaigns/{id}", c.EditCampaign)
	r.Delete("/campaigns/{id}", c.DeleteCampaign)
	r.Post("/campaigns/{id}/activate", c.transition(c.CampaignService.Activate))
	r.Post("/campaigns/{id}/pause", c.transition(c.CampaignService.Pause))
	r.Post("/campaigns/{id}/schedule", c.transition(c.CampaignService.Schedule))
	r.Post("/campaigns/{id}/cancel", c.transition(c.CampaignService.Cancel))
	r.Put("/campaigns/{id}/stats", c.RecordStats)
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handler.WriteError(w, c.Log, appErrors.NewValidation("body", "invalid JSON: "+err.Error()))
		return
	}

	campaign, err := c.CampaignService.Create(r.Context(), body)
	if err != nil {
		handler.WriteError(w, c.Log, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) EditCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handler.WriteError(w, c.Log, appErrors.NewValidation("body", "invalid JSON: "+err.Error()))
		return
	}

	campaign, err := c.CampaignService.Edit(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		handler.WriteError(w, c.Log, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := c.CampaignService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handler.WriteError(w, c.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) transition(op func(context.Context, string) (model.Campaign, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaign, err := op(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handler.WriteError(w, c.Log, err)
			return
		}
		handler.WriteJSON(w, http.StatusOK, campaign)
	}
}

func (c *CampaignController) RecordStats(w http.ResponseWriter, r *http.Request) {
	var body model.Stats
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handler.WriteError(w, c.Log, appErrors.NewValidation("body", "invalid JSON: "+err.Error()))
		return
	}

	campaign, err := c.CampaignService.RecordStats(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		handler.WriteError(w, c.Log, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, campaign)
}

// ListCampaigns serves the dashboard tabs: ?tab=upcoming|active|past|all&type=&status=&page=&page_size=
func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tab, err := scheduler.ParseTab(q.Get("tab"))
	if err != nil {
		handler.WriteError(w, c.Log, appErrors.NewValidation("tab", err.Error()))
		return
	}
	filter := scheduler.Filter{
		Type:   model.CampaignType(q.Get("type")),
		Status: model.Status(q.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		handler.WriteError(w, c.Log, appErrors.NewValidation("status", "unknown status "+strconv.Quote(q.Get("status"))))
		return
	}

	// Defaults are applied by the service.
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	campaigns, pagination, err := c.CampaignService.ListCampaigns(r.Context(), tab, filter, page, pageSize)
	if err != nil {
		handler.WriteError(w, c.Log, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"data":       campaigns,
		"pagination": pagination,
	})
}
