package models

import (
	"etix/src/types"
	"time"
)

// Reservation holds stock aside between checkout-session creation and payment
// confirmation. Pending holds count against ticket availability until they are
// consumed, released or expired.
type Reservation struct {
	ID         uint                    `gorm:"primaryKey" json:"id"`
	TicketID   uint                    `gorm:"index;not null" json:"ticket_id"`
	Ticket     *Ticket                 `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	EventID    uint                    `gorm:"index;not null" json:"event_id"`
	Event      *Event                  `gorm:"foreignKey:EventID" json:"event,omitempty"`
	SessionID  string                  `gorm:"index" json:"session_id"`
	Qty        uint                    `gorm:"not null" json:"qty"`
	Status     types.ReservationStatus `gorm:"default:pending" json:"status"`
	ValidUntil time.Time               `json:"valid_until"`
	Metadata   *types.JSONB            `gorm:"type:jsonb" json:"metadata,omitempty"`
	types.Timestamps
}
