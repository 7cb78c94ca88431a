package transport

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

// ListCategories fetches all categories, defaults included.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Client.ListCategories")
	defer span.End()

	var out []domain.Category
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/categories",
		out:       &out,
		operation: "list_categories",
		resource:  "categories",
	})
	return out, err
}

// CreateCategory creates a category and returns the confirmed entity.
func (c *Client) CreateCategory(ctx context.Context, cat domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Client.CreateCategory")
	defer span.End()

	var out domain.Category
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/categories",
		body:      cat,
		out:       &out,
		operation: "create_category",
		resource:  "category",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory updates a category and returns the confirmed entity.
func (c *Client) UpdateCategory(ctx context.Context, id string, cat domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Client.UpdateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	var out domain.Category
	err := c.do(ctx, call{
		method:    http.MethodPut,
		path:      "/categories/" + url.PathEscape(id),
		body:      cat,
		out:       &out,
		operation: "update_category",
		resource:  "category",
		id:        id,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a user-created category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Client.DeleteCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	return c.do(ctx, call{
		method:    http.MethodDelete,
		path:      "/categories/" + url.PathEscape(id),
		operation: "delete_category",
		resource:  "category",
		id:        id,
	})
}

// analyticsResponse is the backend's user analytics envelope.
type analyticsResponse struct {
	Patterns map[string]domain.UsagePattern `json:"patterns"`
}

// Patterns fetches server-computed usage patterns per category. A
// backend without the analytics endpoint degrades gracefully: a not
// found response yields no patterns and no error, and classification
// falls back to lexicon and amount heuristics.
func (c *Client) Patterns(ctx context.Context, userID string) (map[string]domain.UsagePattern, error) {
	ctx, span := tracer.Start(ctx, "Client.Patterns")
	defer span.End()

	var out analyticsResponse
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/analytics/user?user_id=" + url.QueryEscape(userID),
		out:       &out,
		operation: "get_analytics",
		resource:  "analytics",
		id:        userID,
	})
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, err
	}
	return out.Patterns, nil
}
