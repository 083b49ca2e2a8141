package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rflorenc/catalog-console/internal/models"
)

// resourceView is a registry entry plus the form fields per operation.
type resourceView struct {
	models.ResourceType
	Fields map[models.Operation][]string `json:"fields"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if s.Backend != nil {
		resp["backend"] = s.Backend.BaseURL
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) ListResourceTypes(w http.ResponseWriter, r *http.Request) {
	types := models.ResourceTypes()
	views := make([]resourceView, 0, len(types))
	for _, rt := range types {
		fields := make(map[models.Operation][]string, len(rt.Operations))
		for _, op := range rt.Operations {
			fields[op] = rt.FormFields(op)
		}
		views = append(views, resourceView{ResourceType: rt, Fields: fields})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) ListOperations(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseResourceKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	writeJSON(w, http.StatusOK, models.OperationsFor(kind))
}
