package billingflow

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v72"
)

// Subscription is the Subscription resource from Stripe. Embedded in this
// struct is the stripe.Subscription struct from Stripe. The lifecycle of a
// Subscription is managed entirely by Stripe, nothing here inspects or
// stores it.
type Subscription struct {
	*stripe.Subscription
}

var subscriptionEndpoint = "/v1/subscriptions"

// CreateSubscription will create a new Subscription in Stripe with the
// given request Params.
func CreateSubscription(ctx context.Context, s Stripe, params Params) (*Subscription, error) {
	sub := &Subscription{
		Subscription: &stripe.Subscription{},
	}

	if err := s.post(ctx, subscriptionEndpoint, params, sub.Subscription); err != nil {
		return nil, err
	}
	return sub, nil
}

// Provision implements the signup-time flow. A Customer is created from the
// given Params, then a Subscription is created on that Customer against the
// configured default price. If trials are enabled in the Config then the
// configured trial length is attached to the subscription request.
//
// If creating the Customer fails then the Subscription is never attempted.
// If creating the Subscription fails then the already created Customer is
// returned alongside the error, it is not deleted. Stripe is the only record
// of either, so there is nothing to roll back locally.
func (s Stripe) Provision(ctx context.Context, params Params) (*Customer, *Subscription, error) {
	c, err := CreateCustomer(ctx, s, params)

	if err != nil {
		return nil, nil, err
	}

	subParams := Params{
		"customer": c.ID,
		"items": []Params{
			{"price": s.Config.DefaultPriceID},
		},
	}

	if s.Config.UseTrial {
		subParams["trial_period_days"] = s.Config.trialDays()
	}

	sub, err := CreateSubscription(ctx, s, subParams)

	if err != nil {
		return c, nil, err
	}
	return c, sub, nil
}

// Endpoint will return the URI for the current Subscription. The given uris
// will be appended to the final endpoint.
func (sub *Subscription) Endpoint(uris ...string) string {
	endpoint := subscriptionEndpoint

	if sub.ID != "" {
		endpoint += "/" + sub.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}
