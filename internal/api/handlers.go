package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/runner-go/internal/leaderboard"
	"github.com/MJE43/runner-go/internal/store"
)

// handleListScores returns the best leaderboard.ServiceLimit records.
func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListScores(r.Context(), leaderboard.ServiceLimit)
	if err != nil {
		s.errorHandler.HandleInternalError(w, r, storageErrType(err), "error reading scores", err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

// handleSubmitScore validates, normalizes and stores one record.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.errorHandler.HandleValidationError(w, r, ErrTypeBodyTooBig, "body", "request body too large")
			return
		}
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			s.errorHandler.HandleValidationError(w, r, ErrTypeInvalidJSON, "body", "invalid JSON")
			return
		}
		// a body that is valid JSON but not an object has no name
		req = SubmitRequest{}
	}

	rec, fieldErr := ValidateSubmitRequest(&req, s.now())
	if fieldErr != nil {
		s.errorHandler.HandleValidationError(w, r, ErrTypeValidation, fieldErr.Field, fieldErr.Message)
		return
	}

	if err := s.db.SubmitScore(r.Context(), rec); err != nil {
		s.errorHandler.HandleInternalError(w, r, storageErrType(err), "server error", err)
		return
	}

	s.logger.Printf(
		"score_submitted request_id=%s score=%d level=%d name_len=%d",
		middleware.GetReqID(r.Context()), rec.Score, rec.Level, len([]rune(rec.Name)),
	)
	s.writeJSON(w, http.StatusOK, SubmitResponse{OK: true})
}

func storageErrType(err error) string {
	if errors.Is(err, store.ErrMalformed) {
		return ErrTypeStorage
	}
	return ErrTypeInternal
}
