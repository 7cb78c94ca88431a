package transport

import (
	"context"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

// ListTemplates fetches all recurring templates.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.RecurringTemplate, error) {
	ctx, span := tracer.Start(ctx, "Client.ListTemplates")
	defer span.End()

	var out []domain.RecurringTemplate
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/transactions/templates",
		out:       &out,
		operation: "list_templates",
		resource:  "templates",
	})
	return out, err
}

// UpdateTemplate updates a recurring template and returns the
// confirmed entity.
func (c *Client) UpdateTemplate(ctx context.Context, id string, p domain.TemplatePayload) (*domain.RecurringTemplate, error) {
	ctx, span := tracer.Start(ctx, "Client.UpdateTemplate")
	defer span.End()
	span.SetAttributes(attribute.String("template.id", id))

	var out domain.RecurringTemplate
	err := c.do(ctx, call{
		method:    http.MethodPut,
		path:      "/transactions/templates/" + url.PathEscape(id),
		body:      p,
		out:       &out,
		operation: "update_template",
		resource:  "template",
		id:        id,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTemplate removes a template; deleteFuture also removes
// already generated future occurrences.
func (c *Client) DeleteTemplate(ctx context.Context, id string, deleteFuture bool) error {
	ctx, span := tracer.Start(ctx, "Client.DeleteTemplate")
	defer span.End()
	span.SetAttributes(attribute.String("template.id", id))

	path := "/transactions/templates/" + url.PathEscape(id)
	if deleteFuture {
		path += "?delete_future=true"
	}
	return c.do(ctx, call{
		method:    http.MethodDelete,
		path:      path,
		operation: "delete_template",
		resource:  "template",
		id:        id,
	})
}

// AddSkipDates registers dates a template must not generate
// occurrences for. Dates use the 2006-01-02 format.
func (c *Client) AddSkipDates(ctx context.Context, id string, dates []string) error {
	ctx, span := tracer.Start(ctx, "Client.AddSkipDates")
	defer span.End()
	span.SetAttributes(attribute.String("template.id", id))

	body := map[string][]string{"skip_dates": dates}
	return c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/transactions/templates/" + url.PathEscape(id) + "/skip-dates",
		body:      body,
		operation: "add_skip_dates",
		resource:  "template",
		id:        id,
	})
}
