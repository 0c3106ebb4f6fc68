package model

import "github.com/shopspring/decimal"

// EventKind distinguishes the two ends of a vehicle's usage window.
type EventKind string

const (
	EventDeparture EventKind = "departure"
	EventArrival   EventKind = "arrival"
)

// ScheduleEvent is derived from invoice line items on every aggregation pass.
type ScheduleEvent struct {
	Kind          EventKind `json:"kind"`
	Date          string    `json:"date"`
	VehicleLabel  string    `json:"vehicle_label"`
	VehicleID     string    `json:"vehicle_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Customer      string    `json:"customer"`
}

// TransactionType tags a flattened ledger entry.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is the common shape invoices and expenses are flattened into.
type Transaction struct {
	Type        TransactionType `json:"type"`
	No          string          `json:"no"`
	Name        string          `json:"name"`
	Date        string          `json:"date"`
	DisplayDate string          `json:"display_date"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	RecordedBy  string          `json:"recorded_by"`
}

// Turn is one conversation message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
