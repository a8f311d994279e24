package models

import (
	"etix/src/types"
)

// Ticket is a priced tier of an Event. Quantity is the remaining stock and is
// only ever decremented by payment reconciliation.
type Ticket struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	EventID  uint    `gorm:"index;not null" json:"event_id"`
	Event    *Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Name     string  `gorm:"not null" json:"name"`
	Price    float32 `json:"price"`
	Quantity uint    `json:"quantity"`
	types.Timestamps
}
