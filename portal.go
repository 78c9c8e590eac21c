package billingflow

import (
	"context"

	"github.com/stripe/stripe-go/v72"
)

// PortalSession is the Billing Portal Session resource from Stripe. The URL
// it carries grants the Customer it was created for temporary self-service
// access, it must not be handed to anyone else.
type PortalSession struct {
	*stripe.BillingPortalSession
}

var portalEndpoint = "/v1/billing_portal/sessions"

// PortalSession creates a new Billing Portal Session for the given Customer
// and returns the URL to redirect the user's browser to. The caller is
// responsible for having checked that the given customer ID belongs to the
// authenticated user, no ownership check happens here.
func (s Stripe) PortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error) {
	params := Params{
		"customer":   customerID,
		"return_url": returnURL,
	}

	sess := &PortalSession{
		BillingPortalSession: &stripe.BillingPortalSession{},
	}

	if err := s.post(ctx, portalEndpoint, params, sess.BillingPortalSession); err != nil {
		return nil, err
	}
	return sess, nil
}
