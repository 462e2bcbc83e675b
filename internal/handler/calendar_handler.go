// internal/handler/calendar_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/campaign-scheduler/internal/errors"
	"github.com/unclebandit/campaign-scheduler/internal/service"
)

// CalendarHandler serves the read-only views: the calendar day and a single campaign.
type CalendarHandler struct {
	Service *service.CampaignService
	Log     logrus.FieldLogger
}

func NewCalendarHandler(svc *service.CampaignService, log logrus.FieldLogger) *CalendarHandler {
	return &CalendarHandler{
		Service: svc,
		Log:     log,
	}
}

func (h *CalendarHandler) Routes(r chi.Router) {
	r.Get("/calendar", h.CampaignsOnDateHandler)
	r.Get("/campaigns/{id}", h.GetCampaignHandler)
}

// CampaignsOnDateHandler lists the campaigns running on ?date=YYYY-MM-DD. An optional ?tz=
// names the IANA zone the day is taken in; UTC otherwise.
func (h *CalendarHandler) CampaignsOnDateHandler(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			WriteError(w, h.Log, appErrors.NewValidation("tz", "unknown time zone"))
			return
		}
		loc = l
	}

	date, err := time.ParseInLocation(time.DateOnly, r.URL.Query().Get("date"), loc)
	if err != nil {
		WriteError(w, h.Log, appErrors.NewValidation("date", "must be YYYY-MM-DD"))
		return
	}

	campaigns, err := h.Service.CampaignsOnDate(r.Context(), date)
	if err != nil {
		WriteError(w, h.Log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"date": date.Format(time.DateOnly),
		"data": campaigns,
	})
}

func (h *CalendarHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, h.Log, err)
		return
	}
	WriteJSON(w, http.StatusOK, campaign)
}
