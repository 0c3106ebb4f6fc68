package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleet-assistant-backend/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations. It doubles as a
// record source for the resolver.
type Store interface {
	Vehicles(ctx context.Context) ([]model.Vehicle, error)
	Invoices(ctx context.Context) ([]model.Invoice, error)
	Expenses(ctx context.Context) ([]model.Expense, error)
	SaveRecords(ctx context.Context, vehicles []model.Vehicle, invoices []model.Invoice, expenses []model.Expense) error

	SaveSubscription(ctx context.Context, sub model.PushSubscription, vehicleIDs []string) error
	Subscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForVehicle(ctx context.Context, vehicleID string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := s.db.WithContext(ctx).Order("name").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *gormStore) Invoices(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Vehicle").
		Order("id").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, nil
}

func (s *gormStore) Expenses(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := s.db.WithContext(ctx).Order("id").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	return expenses, nil
}

// SaveRecords upserts records in one transaction. An invoice's line items are
// replaced as a whole; embedded vehicles are reduced to their ids.
func (s *gormStore) SaveRecords(ctx context.Context, vehicles []model.Vehicle, invoices []model.Invoice, expenses []model.Expense) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(vehicles) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(vehicles, 100).Error; err != nil {
				return fmt.Errorf("failed to upsert vehicles: %w", err)
			}
		}

		for i := range invoices {
			if err := saveInvoice(tx, invoices[i]); err != nil {
				return err
			}
		}

		if len(expenses) > 0 {
			rows := make([]model.Expense, len(expenses))
			copy(rows, expenses)
			for i := range rows {
				if rows[i].ID == "" {
					rows[i].ID = rows[i].Number
				}
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 100).Error; err != nil {
				return fmt.Errorf("failed to upsert expenses: %w", err)
			}
		}
		return nil
	})
}

func saveInvoice(tx *gorm.DB, inv model.Invoice) error {
	if inv.ID == "" {
		inv.ID = inv.Number
	}
	if inv.VehicleID == "" && inv.Vehicle != nil {
		inv.VehicleID = inv.Vehicle.ID
	}
	items := inv.Items
	inv.Items = nil
	inv.Vehicle = nil

	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit(clause.Associations).Create(&inv).Error; err != nil {
		return fmt.Errorf("failed to upsert invoice %s: %w", inv.ID, err)
	}
	if err := tx.Where("invoice_id = ?", inv.ID).Delete(&model.LineItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear line items of invoice %s: %w", inv.ID, err)
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([]model.LineItem, len(items))
	for j, item := range items {
		if item.VehicleID == "" && item.Vehicle != nil {
			item.VehicleID = item.Vehicle.ID
		}
		item.ID = 0
		item.InvoiceID = inv.ID
		item.Position = j
		item.Vehicle = nil
		rows[j] = item
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert line items of invoice %s: %w", inv.ID, err)
	}
	return nil
}
