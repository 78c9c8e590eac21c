package billingflow

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v72"
)

// CheckoutSession is the Checkout Session resource from Stripe. Embedded in
// this struct is the stripe.CheckoutSession struct from Stripe. Sessions are
// short-lived and single-use, Stripe expires them.
type CheckoutSession struct {
	*stripe.CheckoutSession
}

// CheckoutParams are the parameters for creating a Checkout Session for a
// one-time purchase.
type CheckoutParams struct {
	// ClientReferenceID is an identifier of the caller's choosing, echoed
	// back on the completed session so fulfillment can tie the payment to
	// whatever initiated it.
	ClientReferenceID string

	// Customer is the ID of an existing Customer to scope the session to.
	// Optional, Stripe will create one during checkout if empty.
	Customer string

	// Price is the one-time price being purchased.
	Price string

	SuccessURL string
	CancelURL  string
}

var checkoutEndpoint = "/v1/checkout/sessions"

// Checkout creates a new Checkout Session in Stripe for a one-time payment
// of the given price. The returned session's ID is what the client-side
// redirect to the Stripe hosted checkout page needs.
func (s Stripe) Checkout(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := Params{
		"mode":                 "payment",
		"payment_method_types": []string{"card"},
		"client_reference_id":  p.ClientReferenceID,
		"line_items": []Params{
			{
				"price":    p.Price,
				"quantity": 1,
			},
		},
		"success_url": p.SuccessURL,
		"cancel_url":  p.CancelURL,
	}

	if p.Customer != "" {
		params["customer"] = p.Customer
	}

	sess := &CheckoutSession{
		CheckoutSession: &stripe.CheckoutSession{},
	}

	if err := s.post(ctx, checkoutEndpoint, params, sess.CheckoutSession); err != nil {
		return nil, err
	}
	return sess, nil
}

// Endpoint will return the URI for the current CheckoutSession. The given
// uris will be appended to the final endpoint.
func (sess *CheckoutSession) Endpoint(uris ...string) string {
	endpoint := checkoutEndpoint

	if sess.ID != "" {
		endpoint += "/" + sess.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}
