package gormstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Cabin mirrors the cabins table. The catalog is seeded into it at
// startup so a database deployment carries the inventory alongside the
// reservations that reference it.
type Cabin struct {
	CabinID        string         `gorm:"primaryKey"`
	Name           string         `gorm:"not null"`
	Description    string         `gorm:""`
	ImageURL       string         `gorm:""`
	BasePriceCents int64          `gorm:"not null"`
	Amenities      datatypes.JSON `gorm:"not null"`
	Capacity       int            `gorm:"not null"`
	CreatedAt      time.Time      `gorm:"not null"`
}

func (Cabin) TableName() string { return "cabins" }

// Reservation mirrors the reservations table. The cabin name is a
// snapshot taken at booking time, not a join.
type Reservation struct {
	ReservationID   string    `gorm:"primaryKey"`
	CabinID         string    `gorm:"not null;index:idx_reservations_cabin_status,priority:1"`
	CabinName       string    `gorm:"not null"`
	UserID          string    `gorm:"not null;index:idx_reservations_user"`
	CheckInDate     string    `gorm:"not null"`
	CheckOutDate    string    `gorm:"not null"`
	TotalPriceCents int64     `gorm:"not null"`
	Status          string    `gorm:"not null;index:idx_reservations_cabin_status,priority:2"`
	PaymentID       *string   `gorm:""`
	CreatedAt       time.Time `gorm:"not null"`
}

func (Reservation) TableName() string { return "reservations" }

func (reservation *Reservation) BeforeCreate(tx *gorm.DB) error {
	if reservation.ReservationID == "" {
		reservation.ReservationID = uuid.NewString()
	}
	return nil
}
