package billingflow

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

// CheckoutCompletedEvent is the event type Stripe emits once a Checkout
// Session has been paid.
const CheckoutCompletedEvent = "checkout.session.completed"

// HookHandlerFunc is the handler function that is registered against an
// event. This is like an http.HandlerFunc, only the first argument it is
// passed is the decoded event sent from Stripe.
type HookHandlerFunc func(stripe.Event, http.ResponseWriter, *http.Request)

// HookHandler provides a way of registering handlers against the different
// events emitted by Stripe. Requests are verified against the pre-shared
// signing secret before any event is parsed or dispatched. Events with no
// registered handler are acknowledged with a 200 and otherwise ignored, so
// Stripe can be configured to send more event types than are handled.
type HookHandler struct {
	mu     sync.RWMutex
	errh   func(error)
	secret string
	events map[string]HookHandlerFunc
}

// NewHookHandler returns a HookHandler using the given secret for request
// verification, and the given callback for handling any errors that occur
// during request verification or dispatch.
func NewHookHandler(secret string, errh func(error)) *HookHandler {
	return &HookHandler{
		errh:   errh,
		secret: secret,
		events: make(map[string]HookHandlerFunc),
	}
}

// CheckoutHook returns a HookHandler that dispatches the checkout completed
// event to the FulfillOrder callback in the given Config. The session
// embedded in the event is handed to the callback as-is, exactly once per
// delivery.
//
// The 200 acknowledgment is only written once the callback has returned
// nil. If the callback fails the request is answered with a 500 so that
// Stripe redelivers the event. Stripe delivers at least once either way, so
// the callback has to tolerate seeing the same session again, no
// deduplication is done here.
func CheckoutHook(cfg Config, errh func(error)) *HookHandler {
	h := NewHookHandler(cfg.WebhookSecret, errh)

	h.Handle(CheckoutCompletedEvent, func(event stripe.Event, w http.ResponseWriter, r *http.Request) {
		sess := &CheckoutSession{
			CheckoutSession: &stripe.CheckoutSession{},
		}

		if err := json.Unmarshal(event.Data.Raw, sess.CheckoutSession); err != nil {
			h.errh(err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := cfg.FulfillOrder(sess); err != nil {
			h.errh(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return h
}

// Handle registers a new handler for the given event. If a handler was
// already registered against the given event, then that handler will be
// overwritten with the new handler.
func (h *HookHandler) Handle(event string, fn HookHandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[event] = fn
}

// HandlerFunc should be registered in the route multiplexer being used to
// register routes in the web server. For example,
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/stripe-hook", hook.HandlerFunc)
//
// this would cause the HookHandler to handle all of the requests sent to
// the "/stripe-hook" endpoint.
func (h *HookHandler) HandlerFunc(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)

	if err != nil {
		h.errh(err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.secret)

	if err != nil {
		h.errh(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.mu.RLock()
	fn, ok := h.events[event.Type]
	h.mu.RUnlock()

	if ok {
		fn(event, w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
}
