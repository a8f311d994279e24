package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

// PaymentProvider is the slice of the payment processor the checkout and
// reconciliation flows depend on. Handlers receive it explicitly so tests can
// substitute a fake without touching package state.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

type stripeProvider struct {
	client *stripe.Client
}

func NewStripeProvider() PaymentProvider {
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	return &stripeProvider{client: sc}
}

func (s *stripeProvider) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	return s.client.V1CheckoutSessions.Create(ctx, params)
}

func (s *stripeProvider) RetrieveCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	return s.client.V1CheckoutSessions.Retrieve(ctx, id, &stripe.CheckoutSessionRetrieveParams{})
}
