package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/store"
)

// importFile is the shape accepted by -import. Rows use the same tolerant
// decoding as the HTTP source.
type importFile struct {
	Vehicles []model.Vehicle `json:"vehicles"`
	Invoices []model.Invoice `json:"invoices"`
	Expenses []model.Expense `json:"expenses"`
}

func importRecords(ctx context.Context, s store.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f importFile
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := s.SaveRecords(ctx, f.Vehicles, f.Invoices, f.Expenses); err != nil {
		return 0, err
	}
	return len(f.Vehicles) + len(f.Invoices) + len(f.Expenses), nil
}
