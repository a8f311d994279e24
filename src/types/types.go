package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type UserRole = string
type ReservationStatus = string

const (
	ROLE_BOOKER UserRole = "booker"
	ROLE_POSTER UserRole = "poster"
	ROLE_ADMIN  UserRole = "admin"

	RESERVATION_PENDING  ReservationStatus = "pending"
	RESERVATION_CONSUMED ReservationStatus = "consumed"
	RESERVATION_RELEASED ReservationStatus = "released"
	RESERVATION_EXPIRED  ReservationStatus = "expired"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInsufficientStock  = errors.New("not enough tickets left")
	ErrPaymentNotVerified = errors.New("Payment not verified")
	ErrForbidden          = errors.New("forbidden")
)

type Timestamps struct {
	CreatedAt time.Time      `json:"created_at,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported jsonb source: %T", value)
	}
}

type RegisterUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role" binding:"omitempty,oneof=booker poster"`
}

type LoginUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateTicketRequestBody struct {
	Name     string  `json:"name" binding:"required"`
	Price    float32 `json:"price" binding:"min=0"`
	Quantity uint    `json:"quantity" binding:"min=0"`
}

type CreateEventRequestBody struct {
	Title       string                    `json:"title" binding:"required"`
	Description string                    `json:"description"`
	Date        string                    `json:"date" binding:"required,bookabledate"`
	Location    string                    `json:"location" binding:"required"`
	Duration    uint                      `json:"duration"`
	Tickets     []CreateTicketRequestBody `json:"tickets" binding:"required,min=1,dive"`
}

type UpdateEventRequestBody struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Date        string                    `json:"date" binding:"omitempty,bookabledate"`
	Location    string                    `json:"location"`
	Duration    uint                      `json:"duration"`
	Tickets     []CreateTicketRequestBody `json:"tickets" binding:"omitempty,min=1,dive"`
}

type CreateCheckoutSessionRequestBody struct {
	EventID  uint `json:"event_id" binding:"required"`
	TicketID uint `json:"ticket_id" binding:"required"`
	Quantity uint `json:"quantity" binding:"omitempty,min=1"`
}

type ConfirmPaymentRequestBody struct {
	SessionID string `json:"session_id" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

// PaymentConfirmation is the payload returned once a checkout session has been
// reconciled into a booking.
type PaymentConfirmation struct {
	Name         string  `json:"name,omitempty"`
	Ticket       string  `json:"ticket"`
	Quantity     uint    `json:"quantity"`
	TicketNumber string  `json:"ticket_number"`
	Event        string  `json:"event"`
	Price        float32 `json:"price"`
	Date         string  `json:"date"`
	Location     string  `json:"location"`
}
