package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"etix/src/common"
	"etix/src/lib"
	"etix/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrEventNotFound),
		errors.Is(err, types.ErrTicketNotFound),
		errors.Is(err, types.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func paymentHandlers(g *gin.Engine, provider lib.PaymentProvider) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		POST("/create-checkout-session", func(ctx *gin.Context) {
			var body types.CreateCheckoutSessionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			cs, err := common.CreateCheckout(ctx, provider, &body)
			if err != nil {
				log.Printf("[CreateCheckout] error: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"sessionId": cs.ID, "url": cs.URL})
		}).
		POST("/confirm-payment", func(ctx *gin.Context) {
			var body types.ConfirmPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			confirmation, err := common.ConfirmPayment(ctx, provider, body.SessionID)
			if err != nil {
				log.Printf("[ConfirmPayment] error: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, confirmation)
		}).
		POST("/webhook/stripe", func(ctx *gin.Context) {
			payload, err := io.ReadAll(ctx.Request.Body)
			if err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
			event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
			if err != nil {
				log.Printf("Webhook signature verification failed: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			switch event.Type {
			case "checkout.session.completed":
				var cs stripe.CheckoutSession
				if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
					log.Printf("Error parsing webhook payload: %s\n", err.Error())
					ctx.Status(http.StatusBadRequest)
					return
				}
				if _, err := common.ConfirmPayment(ctx, provider, cs.ID); err != nil {
					log.Printf("Error reconciling session [%s]: %s\n", cs.ID, err.Error())
				}
			default:
				log.Printf("Unhandled event type: %s\n", event.Type)
			}
			ctx.Status(http.StatusOK)
		})
	return apiv1
}
