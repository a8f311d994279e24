package models

import (
	"etix/src/types"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         types.UserRole `gorm:"default:booker" json:"role"`
	Events       []Event        `gorm:"foreignKey:PosterID" json:"events,omitempty"`
	Bookings     []Booking      `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
	types.Timestamps
}
