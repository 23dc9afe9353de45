package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeConfig holds Stripe Checkout settings
type StripeConfig struct {
	SecretKey string
	CancelURL string
}

// StripeGateway uses Stripe Checkout Sessions as the hosted payment page
type StripeGateway struct {
	cfg      StripeConfig
	sessions *session.Client
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	return &StripeGateway{
		cfg: cfg,
		sessions: &session.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.SecretKey,
		},
	}
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return ProviderStripe
}

// CreatePayment opens a one-line-item Checkout Session
func (g *StripeGateway) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.MerchantReference),
		CustomerEmail:     stripe.String(req.Email),
		SuccessURL:        stripe.String(successURL(req.CallbackURL, req.MerchantReference)),
		CancelURL:         stripe.String(g.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(req.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(toMinorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("merchant_reference", req.MerchantReference)

	s, err := g.sessions.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Msg != "" {
			return nil, &GatewayError{StatusCode: stripeErr.HTTPStatusCode, Message: stripeErr.Msg}
		}
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CreatePaymentResponse{
		IframeURL:         s.URL,
		OrderTrackingID:   s.ID,
		MerchantReference: req.MerchantReference,
	}, nil
}

// VerifyPayment retrieves the Checkout Session and maps its payment status
func (g *StripeGateway) VerifyPayment(ctx context.Context, orderTrackingID string) (*PaymentStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sessions.Get(orderTrackingID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return &PaymentStatus{
		Status:            stripeStatus(s.Status, s.PaymentStatus),
		Amount:            fromMinorUnits(s.AmountTotal),
		Currency:          strings.ToUpper(string(s.Currency)),
		OrderTrackingID:   s.ID,
		MerchantReference: s.ClientReferenceID,
	}, nil
}

func stripeStatus(status stripe.CheckoutSessionStatus, payment stripe.CheckoutSessionPaymentStatus) string {
	switch {
	case payment == stripe.CheckoutSessionPaymentStatusPaid:
		return domain.PaymentStatusCompleted
	case status == stripe.CheckoutSessionStatusExpired:
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatusPending
	}
}

func successURL(callback, merchantReference string) string {
	sep := "?"
	if strings.Contains(callback, "?") {
		sep = "&"
	}
	// {CHECKOUT_SESSION_ID} is substituted by Stripe and must stay unescaped
	return callback + sep + "OrderTrackingId={CHECKOUT_SESSION_ID}&OrderMerchantReference=" + url.QueryEscape(merchantReference)
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
