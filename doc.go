// package billingflow wires together the two billing flows a small SaaS
// needs from Stripe: provisioning a customer with a subscription at signup
// time, and taking one-time payments through hosted checkout with
// webhook-verified fulfillment. Everything billingflow touches is owned and
// persisted by Stripe, nothing is stored locally.
//
// billingflow.Stripe is the main way to interact with the Stripe API. It is
// configured once with a billingflow.Config and passed into each handler,
//
//	cfg := billingflow.Config{
//	    DefaultPriceID: "price_123456",
//	    UseTrial:       true,
//	    WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
//	    FulfillOrder: func(sess *billingflow.CheckoutSession) error {
//	        return orders.MarkPaid(sess.ClientReferenceID)
//	    },
//	}
//
//	st := billingflow.New(os.Getenv("STRIPE_SECRET"), cfg)
//
// the signup-time flow creates a customer and a subscription against the
// configured default price in one call sequence,
//
//	c, sub, err := st.Provision(ctx, billingflow.Params{"email": "me@example.com"})
//
// if UseTrial is set in the Config then the subscription is created with a
// trial period attached, TrialPeriodDays long, or 14 days when that is left
// at zero. If creating the customer fails the subscription is never
// attempted. If creating the subscription fails the customer is left in
// place, there is no local state to roll back and no compensating delete is
// made.
//
// One-time purchases go through a Checkout Session,
//
//	sess, err := st.Checkout(ctx, billingflow.CheckoutParams{
//	    ClientReferenceID: order.ID,
//	    Price:             "price_654321",
//	    SuccessURL:        "https://example.com/thanks",
//	    CancelURL:         "https://example.com/cancel",
//	})
//
// the client redirects to the Stripe hosted page using the session ID, and
// Stripe notifies completion asynchronously. CheckoutHook builds the
// webhook endpoint for that notification,
//
//	hook := billingflow.CheckoutHook(cfg, func(err error) { log.Println(err) })
//	mux.HandleFunc("/billing/webhook", hook.HandlerFunc)
//
// the hook verifies the Stripe-Signature header against the configured
// secret before anything is parsed, rejects requests that fail verification
// with a 400, acknowledges event types it has no handler for, and invokes
// FulfillOrder once per delivery of a checkout completed event. Stripe
// delivers at least once, so FulfillOrder must be idempotent.
//
// For each flow there is also a ready-made http.HandlerFunc (see
// ProvisionHandler, PortalHandler, CheckoutHandler) that decodes a JSON
// request, runs the flow, and replies with the result or a structured error
// body.
package billingflow
