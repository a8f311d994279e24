package models

import (
	"etix/src/types"
	"time"
)

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"index" json:"slug"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	Location    string    `json:"location"`
	Duration    uint      `json:"duration"`
	PosterID    uint      `gorm:"index;not null" json:"poster_id"`
	Poster      *User     `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
	Tickets     []Ticket  `gorm:"foreignKey:EventID" json:"tickets,omitempty"`
	types.Timestamps
}
