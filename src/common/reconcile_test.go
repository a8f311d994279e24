package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"etix/src/db"
	"etix/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

type fakeProvider struct {
	session *stripe.CheckoutSession
	err     error
	created *stripe.CheckoutSessionCreateParams
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	f.created = params
	return f.session, f.err
}

func (f *fakeProvider) RetrieveCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	return f.session, f.err
}

func paidSession() *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:            "cs_test_12345678",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: map[string]string{
			"event_id":  "3",
			"ticket_id": "5",
			"quantity":  "2",
		},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "jane@example.com",
			Name:  "Jane",
		},
	}
}

func TestConfirmPaymentUnpaidTouchesNothing(t *testing.T) {
	_, mock := newMockDB(t)

	sess := paidSession()
	sess.PaymentStatus = stripe.CheckoutSessionPaymentStatusUnpaid
	provider := &fakeProvider{session: sess}

	confirmation, err := ConfirmPayment(context.Background(), provider, sess.ID)
	assert.Nil(t, confirmation)
	assert.True(t, errors.Is(err, types.ErrPaymentNotVerified))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentSessionMissing(t *testing.T) {
	provider := &fakeProvider{err: errors.New("no such session")}

	_, err := ConfirmPayment(context.Background(), provider, "cs_test_gone")
	assert.True(t, errors.Is(err, types.ErrSessionNotFound))
}

func TestConfirmPaymentMalformedMetadata(t *testing.T) {
	sess := paidSession()
	sess.Metadata = map[string]string{}
	provider := &fakeProvider{session: sess}

	_, err := ConfirmPayment(context.Background(), provider, sess.ID)
	assert.NotNil(t, err)
}

func TestConfirmPaymentBooksMatchedBuyer(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	eventDate := time.Date(2027, 6, 1, 19, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "name", "price", "quantity"}).
			AddRow(5, 3, "VIP", 1000.0, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "location", "poster_id"}).
			AddRow(3, "Summer Gig", eventDate, "Town Hall", 1))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "reservations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(7, "Jane", "jane@example.com"))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	provider := &fakeProvider{session: paidSession()}
	confirmation, err := ConfirmPayment(context.Background(), provider, "cs_test_12345678")
	assert.Nil(t, err)
	assert.NotNil(t, confirmation)
	assert.Equal(t, "Jane", confirmation.Name)
	assert.Equal(t, "VIP", confirmation.Ticket)
	assert.Equal(t, uint(2), confirmation.Quantity)
	assert.Equal(t, "5-12345678", confirmation.TicketNumber)
	assert.Equal(t, "Summer Gig", confirmation.Event)
	assert.Equal(t, "Town Hall", confirmation.Location)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentSkipsBookingForUnknownEmail(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	eventDate := time.Date(2027, 6, 1, 19, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "name", "price", "quantity"}).
			AddRow(5, 3, "VIP", 1000.0, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "location", "poster_id"}).
			AddRow(3, "Summer Gig", eventDate, "Town Hall", 1))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "reservations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	provider := &fakeProvider{session: paidSession()}
	confirmation, err := ConfirmPayment(context.Background(), provider, "cs_test_12345678")
	assert.Nil(t, err)
	assert.NotNil(t, confirmation)
	assert.Equal(t, "Jane", confirmation.Name)
	assert.Equal(t, "5-12345678", confirmation.TicketNumber)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentRetryKeepsSingleBooking(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	eventDate := time.Date(2027, 6, 1, 19, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "name", "price", "quantity"}).
			AddRow(5, 3, "VIP", 1000.0, 8))
	mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "location", "poster_id"}).
			AddRow(3, "Summer Gig", eventDate, "Town Hall", 1))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_id", "ticket_id", "qty", "ticket_number"}).
			AddRow(11, 7, 3, 5, 2, "5-12345678"))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(7, "Jane", "jane@example.com"))
	mock.ExpectCommit()

	provider := &fakeProvider{session: paidSession()}
	confirmation, err := ConfirmPayment(context.Background(), provider, "cs_test_12345678")
	assert.Nil(t, err)
	assert.NotNil(t, confirmation)
	assert.Equal(t, "Jane", confirmation.Name)
	assert.Equal(t, "VIP", confirmation.Ticket)
	assert.Equal(t, uint(2), confirmation.Quantity)
	assert.Equal(t, "5-12345678", confirmation.TicketNumber)
	assert.Equal(t, "Summer Gig", confirmation.Event)
	// No UPDATE or INSERT expectations declared: a second decrement or a
	// second booking row would fail the mock.
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentGuestRetryIsNoOp(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	eventDate := time.Date(2027, 6, 1, 19, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "name", "price", "quantity"}).
			AddRow(5, 3, "VIP", 1000.0, 8))
	mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "location", "poster_id"}).
			AddRow(3, "Summer Gig", eventDate, "Town Hall", 1))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	provider := &fakeProvider{session: paidSession()}
	confirmation, err := ConfirmPayment(context.Background(), provider, "cs_test_12345678")
	assert.Nil(t, err)
	assert.NotNil(t, confirmation)
	assert.Equal(t, "Jane", confirmation.Name)
	assert.Equal(t, "5-12345678", confirmation.TicketNumber)
	assert.Equal(t, uint(2), confirmation.Quantity)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentInsufficientStock(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	eventDate := time.Date(2027, 6, 1, 19, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "name", "price", "quantity"}).
			AddRow(5, 3, "VIP", 1000.0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "location", "poster_id"}).
			AddRow(3, "Summer Gig", eventDate, "Town Hall", 1))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	provider := &fakeProvider{session: paidSession()}
	confirmation, err := ConfirmPayment(context.Background(), provider, "cs_test_12345678")
	assert.Nil(t, confirmation)
	assert.True(t, errors.Is(err, types.ErrInsufficientStock))
	assert.Nil(t, mock.ExpectationsWereMet())
}
