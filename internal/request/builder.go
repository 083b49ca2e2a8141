// Package request turns a resource selection and raw form fields into an
// HTTP request descriptor. It performs no I/O.
package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rflorenc/catalog-console/internal/models"
)

// pathFunc resolves the API path for a rule, validating the identifiers it needs.
type pathFunc func(rt models.ResourceType, f Fields) (string, error)

// rule describes how one (resource, operation) pair becomes a request.
type rule struct {
	method string
	path   pathFunc
	body   bool
}

type routeKey struct {
	kind models.ResourceKind
	op   models.Operation
}

// crudRules apply to every resource that has a collection path.
var crudRules = map[models.Operation]rule{
	models.OpCreate: {method: http.MethodPost, path: collectionPath, body: true},
	models.OpRead:   {method: http.MethodGet, path: itemPath},
	models.OpList:   {method: http.MethodGet, path: collectionPath},
	models.OpUpdate: {method: http.MethodPut, path: itemPath, body: true},
	models.OpDelete: {method: http.MethodDelete, path: itemPath},
}

var rules = buildRules()

func buildRules() map[routeKey]rule {
	table := make(map[routeKey]rule)
	for _, rt := range models.ResourceTypes() {
		if rt.Kind == models.KindLink {
			continue
		}
		for _, op := range rt.Operations {
			table[routeKey{rt.Kind, op}] = crudRules[op]
		}
	}
	table[routeKey{models.KindLink, models.OpLink}] = rule{method: http.MethodPost, path: associationPath}
	table[routeKey{models.KindLink, models.OpUnlink}] = rule{method: http.MethodDelete, path: associationPath}
	return table
}

func collectionPath(rt models.ResourceType, _ Fields) (string, error) {
	return rt.Collection, nil
}

func itemPath(rt models.ResourceType, f Fields) (string, error) {
	id := f.Identifier()
	if id == "" {
		return "", &MissingIdentifierError{Field: rt.IDField}
	}
	return rt.Collection + "/" + url.PathEscape(id), nil
}

func associationPath(_ models.ResourceType, f Fields) (string, error) {
	link, ok := f.(LinkFields)
	if !ok {
		return "", fmt.Errorf("association path needs link fields, got %s", f.Kind())
	}
	if err := link.check(); err != nil {
		return "", err
	}
	product := "/products/" + url.PathEscape(link.ProductID)
	if link.SupplierID != "" {
		return product + "/suppliers/" + url.PathEscape(link.SupplierID), nil
	}
	return product + "/categories/" + url.PathEscape(link.CategoryID), nil
}

// Builder produces request descriptors rooted at a backend.
type Builder struct {
	backend *models.Backend
}

// NewBuilder creates a Builder for the given backend.
func NewBuilder(backend *models.Backend) *Builder {
	return &Builder{backend: backend}
}

// Build validates fields for (kind, op) and returns the request to send.
func (b *Builder) Build(kind models.ResourceKind, op models.Operation, fields models.FieldSet) (models.RequestDescriptor, error) {
	rt, ok := models.LookupResource(kind)
	if !ok {
		return models.RequestDescriptor{}, &UnknownResourceError{Name: string(kind)}
	}
	r, ok := rules[routeKey{kind, op}]
	if !ok || !rt.Supports(op) {
		return models.RequestDescriptor{}, &UnsupportedOperationError{Resource: kind, Operation: op}
	}

	typed := decoders[kind](fields)
	path, err := r.path(rt, typed)
	if err != nil {
		return models.RequestDescriptor{}, err
	}

	d := models.RequestDescriptor{
		URL:     b.backend.URL(path),
		Method:  r.method,
		Headers: map[string]string{},
	}
	if !r.body {
		return d, nil
	}
	// Mandatory fields are sent on create even when empty; update sends
	// only what was filled in.
	payload, err := typed.Payload(func(field string) bool {
		return op == models.OpCreate && rt.IsMandatory(field)
	})
	if err != nil {
		return models.RequestDescriptor{}, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return models.RequestDescriptor{}, fmt.Errorf("marshaling body: %w", err)
	}
	d.Body = data
	d.Headers["Content-Type"] = "application/json"
	return d, nil
}

// BuildNamed parses resource and operation names before building.
func (b *Builder) BuildNamed(resource, operation string, fields models.FieldSet) (models.RequestDescriptor, error) {
	kind, op, err := Parse(resource, operation)
	if err != nil {
		return models.RequestDescriptor{}, err
	}
	return b.Build(kind, op, fields)
}

// Parse resolves resource and operation names against the registry.
func Parse(resource, operation string) (models.ResourceKind, models.Operation, error) {
	kind, ok := models.ParseResourceKind(resource)
	if !ok {
		return "", "", &UnknownResourceError{Name: resource}
	}
	op, ok := models.ParseOperation(operation)
	if !ok {
		return "", "", &UnknownOperationError{Name: operation}
	}
	return kind, op, nil
}
