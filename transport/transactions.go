package transport

import (
	"context"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

// ListTransactions fetches transactions. params is a raw query string
// (period, filters) and may be empty.
func (c *Client) ListTransactions(ctx context.Context, params string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Client.ListTransactions")
	defer span.End()

	path := "/transactions"
	if params != "" {
		path += "?" + params
	}
	var out []domain.Transaction
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      path,
		out:       &out,
		operation: "list_transactions",
		resource:  "transactions",
	})
	return out, err
}

// CreateTransaction creates a transaction and returns the confirmed
// entity with its server-assigned ID.
func (c *Client) CreateTransaction(ctx context.Context, p domain.TransactionPayload) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Client.CreateTransaction")
	defer span.End()

	var out domain.Transaction
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/transactions/" + string(p.Type),
		body:      p,
		out:       &out,
		operation: "create_transaction",
		resource:  "transaction",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction updates a transaction. For template-linked
// transactions, p.UpdateFuture extends the edit to future occurrences.
func (c *Client) UpdateTransaction(ctx context.Context, id string, p domain.TransactionPayload) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Client.UpdateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id))

	var out domain.Transaction
	err := c.do(ctx, call{
		method:    http.MethodPut,
		path:      "/transactions/" + string(p.Type) + "/" + url.PathEscape(id),
		body:      p,
		out:       &out,
		operation: "update_transaction",
		resource:  "transaction",
		id:        id,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes a transaction; deleteFuture also removes
// generated future occurrences of the same template.
func (c *Client) DeleteTransaction(ctx context.Context, txType domain.TransactionType, id string, deleteFuture bool) error {
	ctx, span := tracer.Start(ctx, "Client.DeleteTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id))

	path := "/transactions/" + string(txType) + "/" + url.PathEscape(id)
	if deleteFuture {
		path += "?delete_future=true"
	}
	return c.do(ctx, call{
		method:    http.MethodDelete,
		path:      path,
		operation: "delete_transaction",
		resource:  "transaction",
		id:        id,
	})
}

// ListRecurring fetches the transactions generated from recurring
// templates for the given type.
func (c *Client) ListRecurring(ctx context.Context, txType domain.TransactionType) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Client.ListRecurring")
	defer span.End()

	var out []domain.Transaction
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/transactions/recurring/" + string(txType),
		out:       &out,
		operation: "list_recurring",
		resource:  "transactions",
	})
	return out, err
}

// GetSummary fetches the aggregated transaction summary.
func (c *Client) GetSummary(ctx context.Context) (*domain.TransactionSummary, error) {
	ctx, span := tracer.Start(ctx, "Client.GetSummary")
	defer span.End()

	var out domain.TransactionSummary
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/transactions/summary",
		out:       &out,
		operation: "get_summary",
		resource:  "summary",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateRecurring asks the backend to materialize all due recurring
// occurrences. Safe to call repeatedly; the backend deduplicates.
func (c *Client) GenerateRecurring(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Client.GenerateRecurring")
	defer span.End()

	return c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/transactions/generate-recurring",
		operation: "generate_recurring",
		resource:  "transactions",
	})
}
