package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/rtm0/era5stats/internal/catalogue"
	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/daily"
	"github.com/rtm0/era5stats/internal/era5"
	"github.com/rtm0/era5stats/internal/logging"
)

type errorBody struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, text string) {
	s.writeJSON(w, status, errorBody{Code: status, Text: text})
}

// validationErrorResponse sends a 400 Bad Request response with
// field-specific validation errors.
func (s *Server) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	s.writeJSON(w, http.StatusBadRequest, struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{fieldErrors})
}

// failureResponse answers 400 for invalid parameters, 502 for failed
// retrievals and 500 otherwise.
func (s *Server) failureResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *catalogue.ValidationError
		rerr *cds.RetrieveError
	)
	switch {
	case errors.As(err, &verr):
		s.validationErrorResponse(w, r, verr.Fields)
	case errors.Is(err, era5.ErrEmptySelection), errors.Is(err, daily.ErrEmptyArea):
		s.validationErrorResponse(w, r, map[string][]string{"area": {err.Error()}})
	case errors.As(err, &rerr):
		logging.LogError(logging.FromContext(r.Context()), "retrieval failed", err)
		s.errorResponse(w, r, http.StatusBadGateway, rerr.Error())
	default:
		logging.LogError(logging.FromContext(r.Context()), "request failed", err)
		s.errorResponse(w, r, http.StatusInternalServerError, "internal server error")
	}
}
