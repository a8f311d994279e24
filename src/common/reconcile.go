package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"etix/src/config"
	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"

	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfirmPayment reconciles a checkout session into inventory and bookings.
// Unpaid sessions are rejected before anything is touched. Retrying a session
// that already reconciled is a no-op returning the same payload.
func ConfirmPayment(ctx context.Context, provider lib.PaymentProvider, sessionId string) (*types.PaymentConfirmation, error) {
	sess, err := provider.RetrieveCheckoutSession(ctx, sessionId)
	if err != nil {
		log.Printf("Error retrieving session [%s]: %s\n", sessionId, err.Error())
		return nil, types.ErrSessionNotFound
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, types.ErrPaymentNotVerified
	}

	ticketId, err := strconv.Atoi(sess.Metadata["ticket_id"])
	if err != nil {
		return nil, fmt.Errorf("malformed session metadata: %s", err.Error())
	}
	eventId, err := strconv.Atoi(sess.Metadata["event_id"])
	if err != nil {
		return nil, fmt.Errorf("malformed session metadata: %s", err.Error())
	}
	qty64, err := strconv.Atoi(sess.Metadata["quantity"])
	if err != nil || qty64 < 1 {
		return nil, errors.New("malformed session metadata: quantity")
	}
	qty := uint(qty64)

	email := ""
	buyerName := ""
	if sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
		buyerName = sess.CustomerDetails.Name
	}

	var confirmation *types.PaymentConfirmation
	var buyer *models.User
	d := db.GetDb()
	err = d.Transaction(func(tx *gorm.DB) error {
		var ticket models.Ticket
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ticketId).
			First(&ticket).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrTicketNotFound
			}
			return err
		}
		var event models.Event
		if err := tx.
			Where("id = ?", eventId).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrEventNotFound
			}
			return err
		}

		ticketNumber := utils.TicketNumber(ticket.ID, sess.ID)
		payload := types.PaymentConfirmation{
			Ticket:       ticket.Name,
			Quantity:     qty,
			TicketNumber: ticketNumber,
			Event:        event.Title,
			Price:        ticket.Price,
			Date:         event.Date.Format(config.TIME_PARSE_FORMAT),
			Location:     event.Location,
		}

		var prior models.Booking
		err := tx.
			Where(&models.Booking{TicketNumber: ticketNumber}).
			First(&prior).
			Error
		if err == nil {
			var user models.User
			if err := tx.Where("id = ?", prior.UserID).First(&user).Error; err == nil {
				payload.Name = user.Name
			}
			payload.Quantity = prior.Qty
			confirmation = &payload
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// A consumed hold with no booking means a guest purchase already
		// reconciled; retrying must not touch stock again.
		var done int64
		if err := tx.
			Model(&models.Reservation{}).
			Where("session_id = ? AND status = ?", sess.ID, types.RESERVATION_CONSUMED).
			Count(&done).
			Error; err != nil {
			return err
		}
		if done > 0 {
			payload.Name = buyerName
			confirmation = &payload
			return nil
		}

		res := tx.
			Model(&models.Ticket{}).
			Where("id = ? AND quantity >= ?", ticket.ID, qty).
			Update("quantity", gorm.Expr("quantity - ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrInsufficientStock
		}

		if err := tx.
			Model(&models.Reservation{}).
			Where("session_id = ? AND status = ?", sess.ID, types.RESERVATION_PENDING).
			Update("status", types.RESERVATION_CONSUMED).
			Error; err != nil {
			return err
		}

		if email != "" {
			var user models.User
			err := tx.Where(&models.User{Email: email}).First(&user).Error
			if err == nil {
				booking := models.Booking{
					UserID:       user.ID,
					EventID:      event.ID,
					TicketID:     ticket.ID,
					Qty:          qty,
					TicketNumber: ticketNumber,
				}
				if err := tx.
					Where(&models.Booking{TicketNumber: ticketNumber}).
					FirstOrCreate(&booking).
					Error; err != nil {
					return err
				}
				buyer = &user
				payload.Name = user.Name
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			} else {
				log.Printf("No account matches %s; booking skipped for session [%s]\n", email, sess.ID)
				payload.Name = buyerName
			}
		}

		confirmation = &payload
		return nil
	})
	if err != nil {
		return nil, err
	}

	if buyer != nil {
		go SendBookingConfirmation(buyer, confirmation)
	}

	return confirmation, nil
}

// SendBookingConfirmation mails the reconciled booking details to the buyer.
func SendBookingConfirmation(user *models.User, c *types.PaymentConfirmation) {
	if os.Getenv("SMTP_HOST") == "" {
		log.Println("SMTP not configured; skipping confirmation email")
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking is confirmed.\n\nEvent: %s\nTicket: %s x%d\nTicket number: %s\nWhen: %s\nWhere: %s\n",
		user.Name, c.Event, c.Ticket, c.Quantity, c.TicketNumber, c.Date, c.Location,
	)
	err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "etix",
		To:       []string{user.Email},
		Subject:  fmt.Sprintf("Your tickets for %s", c.Event),
		Body:     body,
	})
	if err != nil {
		log.Printf("Error sending confirmation email to [%d]: %s\n", user.ID, err.Error())
	}
}
