package billingflow

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v72"
)

// Customer is the Customer resource from Stripe. Embedded in this struct is
// the stripe.Customer struct from Stripe. Stripe owns the record, we only
// ever hold on to its ID.
type Customer struct {
	*stripe.Customer
}

var customerEndpoint = "/v1/customers"

// CreateCustomer creates a new Customer in Stripe with the given Params and
// returns it.
func CreateCustomer(ctx context.Context, s Stripe, params Params) (*Customer, error) {
	c := &Customer{
		Customer: &stripe.Customer{},
	}

	if err := s.post(ctx, customerEndpoint, params, c.Customer); err != nil {
		return nil, err
	}
	return c, nil
}

// Endpoint will return the URI for the current Customer. The given uris will
// be appended to the final endpoint.
func (c *Customer) Endpoint(uris ...string) string {
	endpoint := customerEndpoint

	if c.ID != "" {
		endpoint += "/" + c.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}
