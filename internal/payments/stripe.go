// Package payments wraps the Stripe API for checkout and webhook handling.
package payments

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Service holds Stripe credentials and builds checkout sessions. A Service
// with an empty secret key is valid but unconfigured; handlers must check.
type Service struct {
	secretKey     string
	webhookSecret string
	callbackURL   string
}

// NewService sets the global Stripe key and returns a Service. callbackURL is
// the public base URL checkout redirects back to.
func NewService(secretKey, webhookSecret, callbackURL string) *Service {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &Service{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		callbackURL:   strings.TrimRight(callbackURL, "/"),
	}
}

// HasSecretKey reports whether an API secret key is present.
func (s *Service) HasSecretKey() bool { return s.secretKey != "" }

// HasWebhookSecret reports whether a webhook signing secret is present.
func (s *Service) HasWebhookSecret() bool { return s.webhookSecret != "" }

// Configured reports whether both credentials are present.
func (s *Service) Configured() bool { return s.HasSecretKey() && s.HasWebhookSecret() }

// CheckoutInput describes a plan purchase.
type CheckoutInput struct {
	UserID      uint
	PlanID      string
	PriceAmount float64
	Credits     int
}

// CreateCheckout builds a one-time card payment session for a plan and
// returns the hosted checkout URL. The user, plan, and credit amount ride
// along as session metadata so the webhook can apply the purchase.
func (s *Service) CreateCheckout(in CheckoutInput) (string, error) {
	name := in.PlanID
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name + " Plan"),
						Description: stripe.String(fmt.Sprintf("%d credits", in.Credits)),
					},
					UnitAmount: stripe.Int64(int64(math.Round(in.PriceAmount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.callbackURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.callbackURL + "/pricing"),
	}
	params.AddMetadata("userId", strconv.FormatUint(uint64(in.UserID), 10))
	params.AddMetadata("planId", in.PlanID)
	params.AddMetadata("credits", strconv.Itoa(in.Credits))

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// ConstructEvent verifies a webhook payload against its signature header.
func (s *Service) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
}
