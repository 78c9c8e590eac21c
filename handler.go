package billingflow

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v72"
)

// ProvisionRequest is the body of a provisioning request. Fields other than
// Email are optional and passed through to the customer that gets created.
type ProvisionRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProvisionResponse is the body of a successful provisioning response, the
// created customer and subscription together.
type ProvisionResponse struct {
	Customer     *stripe.Customer     `json:"customer"`
	Subscription *stripe.Subscription `json:"subscription"`
}

// PortalRequest is the body of a portal session request. The caller must
// have checked that CustomerID belongs to the user it is acting for.
type PortalRequest struct {
	CustomerID string `json:"customer_id"`
	ReturnURL  string `json:"return_url"`
}

// PortalResponse carries the URL to redirect the user's browser to.
type PortalResponse struct {
	URL string `json:"url"`
}

// CheckoutRequest is the body of a checkout session request.
type CheckoutRequest struct {
	ClientReferenceID string `json:"client_reference_id"`
	CustomerID        string `json:"customer_id"`
	PriceID           string `json:"price_id"`
	SuccessURL        string `json:"success_url"`
	CancelURL         string `json:"cancel_url"`
}

// CheckoutResponse carries the ID of the created session, which is what the
// client-side redirect to the hosted checkout page needs.
type CheckoutResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// respondErr maps an error from a flow onto a structured error body. Errors
// decoded from the Stripe API come back as a 502, everything else is a 500.
func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	if _, ok := err.(*Error); ok {
		code = http.StatusBadGateway
	}
	respondJSON(w, code, errorResponse{Error: err.Error()})
}

// ProvisionHandler returns the request handler for the signup-time flow. It
// decodes a ProvisionRequest, runs Provision, and replies with either the
// created customer and subscription, or a structured error body. Errors from
// Stripe are logged and surfaced to the caller, never thrown past here.
func ProvisionHandler(s Stripe, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProvisionRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}

		params := Params{"email": req.Email}

		if req.Name != "" {
			params["name"] = req.Name
		}

		c, sub, err := s.Provision(r.Context(), params)

		if err != nil {
			log.Error("provisioning failed", "email", req.Email, "err", err)
			respondErr(w, err)
			return
		}

		respondJSON(w, http.StatusOK, ProvisionResponse{
			Customer:     c.Customer,
			Subscription: sub.Subscription,
		})
	}
}

// PortalHandler returns the request handler for creating billing portal
// sessions.
func PortalHandler(s Stripe, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PortalRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}

		sess, err := s.PortalSession(r.Context(), req.CustomerID, req.ReturnURL)

		if err != nil {
			log.Error("portal session failed", "customer", req.CustomerID, "err", err)
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, PortalResponse{URL: sess.URL})
	}
}

// CheckoutHandler returns the request handler for creating checkout
// sessions for one-time purchases.
func CheckoutHandler(s Stripe, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckoutRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}

		sess, err := s.Checkout(r.Context(), CheckoutParams{
			ClientReferenceID: req.ClientReferenceID,
			Customer:          req.CustomerID,
			Price:             req.PriceID,
			SuccessURL:        req.SuccessURL,
			CancelURL:         req.CancelURL,
		})

		if err != nil {
			log.Error("checkout session failed", "reference", req.ClientReferenceID, "err", err)
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, CheckoutResponse{ID: sess.ID})
	}
}
