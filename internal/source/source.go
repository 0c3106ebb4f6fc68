// Package source reads the dashboard's vehicles, invoices and expenses.
package source

import (
	"context"

	"fleet-assistant-backend/internal/model"
)

// RecordSource is the read side the resolver aggregates over.
type RecordSource interface {
	Vehicles(ctx context.Context) ([]model.Vehicle, error)
	Invoices(ctx context.Context) ([]model.Invoice, error)
	Expenses(ctx context.Context) ([]model.Expense, error)
}
