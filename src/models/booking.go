package models

import (
	"etix/src/types"
	"time"
)

// Booking is the permanent record of a reconciled purchase. Rows are never
// mutated after creation.
type Booking struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EventID      uint      `gorm:"index;not null" json:"event_id"`
	Event        *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	TicketID     uint      `gorm:"index;not null" json:"ticket_id"`
	Ticket       *Ticket   `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	Qty          uint      `gorm:"not null" json:"qty"`
	TicketNumber string    `gorm:"uniqueIndex;not null" json:"ticket_number"`
	BookedAt     time.Time `gorm:"autoCreateTime" json:"booked_at"`
	types.Timestamps
}
