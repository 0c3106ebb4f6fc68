package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleet-assistant-backend/internal/model"
)

// SaveSubscription creates or replaces a subscription and the vehicles it follows.
func (s *gormStore) SaveSubscription(ctx context.Context, sub model.PushSubscription, vehicleIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub.Vehicles = nil
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return err
		}

		var vehicles []*model.Vehicle
		if len(vehicleIDs) > 0 {
			if err := tx.Where("id IN ?", vehicleIDs).Find(&vehicles).Error; err != nil {
				return err
			}
		}

		return tx.Model(&sub).Association("Vehicles").Replace(vehicles)
	})
}

// Subscription loads one subscription with its vehicles.
func (s *gormStore) Subscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Vehicles").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription and its vehicle mappings.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := model.PushSubscription{Endpoint: endpoint}
		if err := tx.Model(&sub).Association("Vehicles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&sub).Error
	})
}

// SubscriptionsForVehicle lists the subscriptions following a vehicle.
func (s *gormStore) SubscriptionsForVehicle(ctx context.Context, vehicleID string) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_vehicle_mapping svm ON svm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("svm.vehicle_id = ?", vehicleID).
		Find(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for vehicle %s: %w", vehicleID, err)
	}
	return subscriptions, nil
}
