package console

import (
	"context"

	"github.com/rflorenc/catalog-console/internal/models"
	"github.com/rflorenc/catalog-console/internal/request"
)

// Console builds a request from a form selection and sends it.
type Console struct {
	builder *request.Builder
	client  *Client
}

// New creates a Console.
func New(builder *request.Builder, client *Client) *Console {
	return &Console{builder: builder, client: client}
}

// Preview builds the request without sending it.
func (c *Console) Preview(resource, operation string, fields models.FieldSet) (models.RequestDescriptor, error) {
	return c.builder.BuildNamed(resource, operation, fields)
}

// Submit builds the request and, if it validates, sends it. Validation
// errors are returned before any network call.
func (c *Console) Submit(ctx context.Context, resource, operation string, fields models.FieldSet) (*Exchange, error) {
	d, err := c.builder.BuildNamed(resource, operation, fields)
	if err != nil {
		return nil, err
	}
	return c.client.Do(ctx, d)
}
