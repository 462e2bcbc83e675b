// internal/errors/errors.go
package appErrors

import (
	"fmt"
)

// ValidationError rejects bad input on create or edit and names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidTransitionError rejects an action the campaign's current status does not allow.
// The campaign is left unchanged.
type InvalidTransitionError struct {
	CampaignID string
	From       string
	Action     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("campaign %s cannot %s from status %s", e.CampaignID, e.Action, e.From)
}

func NewInvalidTransition(id, from, action string) error {
	return &InvalidTransitionError{CampaignID: id, From: from, Action: action}
}

type NotFoundError struct {
	CampaignID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &NotFoundError{CampaignID: id}
}
