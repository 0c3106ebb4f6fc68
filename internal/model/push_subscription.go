package model

import "time"

// PushSubscription is a browser push endpoint following departure and
// arrival reminders for a set of vehicles.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	Vehicles []*Vehicle `gorm:"many2many:subscription_vehicle_mapping;"`
}
