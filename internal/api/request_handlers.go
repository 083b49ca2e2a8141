package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rflorenc/catalog-console/internal/models"
	"github.com/rflorenc/catalog-console/internal/request"
)

// submission is the form selection posted by the front-end.
type submission struct {
	Resource  string          `json:"resource"`
	Operation string          `json:"operation"`
	Fields    models.FieldSet `json:"fields"`
}

func decodeSubmission(w http.ResponseWriter, r *http.Request) (submission, bool) {
	var sub submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return sub, false
	}
	if sub.Fields == nil {
		sub.Fields = models.FieldSet{}
	}
	return sub, true
}

// writeBuildError reports a builder failure; validation errors are 422.
func (s *Server) writeBuildError(w http.ResponseWriter, err error) {
	if errors.Is(err, request.ErrValidation) {
		writeCodedError(w, http.StatusUnprocessableEntity, request.ErrorCode(err), err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) PreviewRequest(w http.ResponseWriter, r *http.Request) {
	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}
	d, err := s.Console.Preview(sub.Resource, sub.Operation, sub.Fields)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) SendRequest(w http.ResponseWriter, r *http.Request) {
	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}
	ex, err := s.Console.Submit(r.Context(), sub.Resource, sub.Operation, sub.Fields)
	if err != nil {
		if errors.Is(err, request.ErrValidation) {
			s.writeBuildError(w, err)
			return
		}
		s.Logger.Error("request not delivered",
			"request_id", middleware.GetReqID(r.Context()),
			"resource", sub.Resource, "operation", sub.Operation, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ex)
}
