// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/campaign-scheduler/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError maps domain errors to 400, 409 and 404; anything else is a 500.
func WriteError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var (
		verr *appErrors.ValidationError
		terr *appErrors.InvalidTransitionError
		nerr *appErrors.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
	case errors.As(err, &terr):
		WriteJSON(w, http.StatusConflict, map[string]string{"error": terr.Error(), "status": terr.From})
	case errors.As(err, &nerr):
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": nerr.Error()})
	default:
		if log != nil {
			log.WithError(err).Error("request failed")
		}
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
