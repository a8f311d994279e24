package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"etix/src/config"
	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// CreateCheckout places a hold on the requested tickets and opens a hosted
// checkout session for them. The hold counts against availability until the
// payment is confirmed or the hold window closes.
func CreateCheckout(ctx context.Context, provider lib.PaymentProvider, body *types.CreateCheckoutSessionRequestBody) (*stripe.CheckoutSession, error) {
	qty := body.Quantity
	if qty == 0 {
		qty = 1
	}

	var ticket models.Ticket
	var event models.Event
	hold := models.Reservation{
		TicketID:   body.TicketID,
		EventID:    body.EventID,
		Qty:        qty,
		Status:     types.RESERVATION_PENDING,
		ValidUntil: time.Now().Add(config.HOLD_WINDOW),
	}
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ? AND event_id = ?", body.TicketID, body.EventID).
			First(&ticket).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrTicketNotFound
			}
			return err
		}
		if err := tx.
			Where("id = ?", body.EventID).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrEventNotFound
			}
			return err
		}
		held, err := ActiveHolds(tx, ticket.ID)
		if err != nil {
			return err
		}
		if ticket.Quantity < held+qty {
			return types.ErrInsufficientStock
		}
		if err := tx.Create(&hold).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	requestId := uuid.NewString()
	appHost := config.AppHost()
	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String("payment"),
		SuccessURL: stripe.String(fmt.Sprintf("%s/payment-success?session_id={CHECKOUT_SESSION_ID}", appHost)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/payment-cancelled", appHost)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(int64(qty)),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(config.CURRENCY),
					UnitAmount: stripe.Int64(utils.UnitAmount(ticket.Price)),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s - %s", event.Title, ticket.Name)),
					},
				},
			},
		},
		Metadata: map[string]string{
			"event_id":       fmt.Sprintf("%d", event.ID),
			"ticket_id":      fmt.Sprintf("%d", ticket.ID),
			"quantity":       fmt.Sprintf("%d", qty),
			"reservation_id": fmt.Sprintf("%d", hold.ID),
			"request_id":     requestId,
		},
	}
	cs, err := provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		log.Printf("Error creating checkout session: %s\n", err.Error())
		ReleaseHold(hold.ID)
		return nil, err
	}

	if err := d.
		Model(&models.Reservation{}).
		Where("id = ?", hold.ID).
		Update("session_id", cs.ID).
		Error; err != nil {
		log.Printf("Error tagging hold [%d] with session: %s\n", hold.ID, err.Error())
	}

	if _, err := lib.CreateOneTimeJob(hold.ValidUntil, gocron.NewTask(ReleaseHold, hold.ID)); err != nil {
		log.Printf("Could not schedule release for hold [%d]: %s\n", hold.ID, err.Error())
	}

	return cs, nil
}
