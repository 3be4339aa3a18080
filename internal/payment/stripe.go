package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Charger is the external payment authority. Charge returns an opaque
// payment reference on success; any other outcome, including
// requires-action, is a failure from the booking core's point of view.
type Charger interface {
	Charge(ctx context.Context, amountCents int64, currency, paymentMethodRef string) (string, error)
}

type StripeCharger struct{}

func NewStripeCharger(apiKey string) *StripeCharger {
	stripe.Key = apiKey
	return &StripeCharger{}
}

func (c *StripeCharger) Charge(ctx context.Context, amountCents int64, currency, paymentMethodRef string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(paymentMethodRef),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String(string(stripe.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return "", fmt.Errorf("stripe declined: %s", stripeErr.Msg)
		}
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment not completed, status %s", intent.Status)
	}
	return intent.ID, nil
}

var _ Charger = (*StripeCharger)(nil)
