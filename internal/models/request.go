package models

import "encoding/json"

// FieldSet maps form field names to raw string values. An absent key and
// an empty string both mean "unset".
type FieldSet map[string]string

// Get returns the value of name, or "" when it is not present.
func (f FieldSet) Get(name string) string {
	if f == nil {
		return ""
	}
	return f[name]
}

// RequestDescriptor is one fully specified HTTP exchange, ready for a transport.
type RequestDescriptor struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

// HasBody reports whether the descriptor carries a payload.
func (d RequestDescriptor) HasBody() bool {
	return len(d.Body) > 0
}
