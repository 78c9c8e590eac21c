package billingflow

// defaultTrialDays is the trial length attached to new subscriptions when
// trials are enabled and no explicit length has been configured.
const defaultTrialDays = 14

// FulfillFunc is the caller supplied callback invoked when a checkout has
// completed. The CheckoutSession passed in is the session embedded in the
// webhook event, unmodified. Stripe delivers events at least once, so this
// is expected to be safe to invoke more than once for the same session.
type FulfillFunc func(*CheckoutSession) error

// Config holds the process wide configuration for the billing flows. This
// is constructed once and handed to New, rather than being read from global
// mutable state by each flow.
type Config struct {
	// DefaultPriceID is the price every newly provisioned subscription is
	// created against.
	DefaultPriceID string

	// UseTrial enables attaching a trial period to newly provisioned
	// subscriptions.
	UseTrial bool

	// TrialPeriodDays is the trial length in days. A value of zero means
	// the 14 day default. Ignored unless UseTrial is set.
	TrialPeriodDays int

	// FulfillOrder is invoked with the completed checkout session by the
	// webhook dispatcher.
	FulfillOrder FulfillFunc

	// WebhookSecret is the pre-shared secret that inbound webhook
	// signatures are verified against.
	WebhookSecret string

	// Account, if set, is the connected account every API call is made on
	// behalf of.
	Account string
}

func (c Config) trialDays() int {
	if c.TrialPeriodDays > 0 {
		return c.TrialPeriodDays
	}
	return defaultTrialDays
}
