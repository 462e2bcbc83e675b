// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// DefaultNoticeTemplate is used by the distribution worker when none is configured.
const DefaultNoticeTemplate = "Campaign {name} ({campaign_id}) is now {status}"

func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// RenderNotice fills the placeholders {name}, {campaign_id}, {status} and {trigger}.
func RenderNotice(template string, ev model.TransitionEvent) string {
	name := ev.CampaignName
	if name == "" {
		name = "<unknown>"
	}
	return RenderTemplate(template, map[string]string{
		"name":        name,
		"campaign_id": ev.CampaignID,
		"status":      string(ev.To),
		"trigger":     string(ev.Trigger),
	})
}
