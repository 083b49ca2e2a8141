package models

import "strings"

// Backend is the REST API the console sends requests to.
type Backend struct {
	BaseURL  string `json:"base_url"` // "http://localhost:8080/api"
	Insecure bool   `json:"insecure"` // skip TLS verification
	CACert   string `json:"-"`        // PEM bundle for a private CA
}

// URL joins the base URL and an absolute API path.
func (b *Backend) URL(path string) string {
	base := strings.TrimRight(b.BaseURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
