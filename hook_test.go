package billingflow

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v72/webhook"
)

const hookSecret = "whsec_123456"

func signPayload(payload []byte, secret string) string {
	now := time.Now()
	mac := webhook.ComputeSignature(now, payload, secret)

	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(mac))
}

func postHook(h *HookHandler, payload, signature string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", "/billing/webhook", strings.NewReader(payload))
	r.Header.Set("Stripe-Signature", signature)

	w := httptest.NewRecorder()
	h.HandlerFunc(w, r)
	return w
}

func Test_CheckoutHook(t *testing.T) {
	payload := `{
		"id": "evt_123456",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123456",
				"client_reference_id": "order_123456"
			}
		}
	}`

	fulfilled := make([]*CheckoutSession, 0)

	cfg := Config{
		WebhookSecret: hookSecret,
		FulfillOrder: func(sess *CheckoutSession) error {
			fulfilled = append(fulfilled, sess)
			return nil
		},
	}

	h := CheckoutHook(cfg, func(err error) { t.Log(err) })

	w := postHook(h, payload, signPayload([]byte(payload), hookSecret))

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status, expected=%d, got=%d\n", http.StatusOK, w.Code)
	}

	if len(fulfilled) != 1 {
		t.Fatalf("expected fulfillment to be invoked once, got=%d\n", len(fulfilled))
	}

	sess := fulfilled[0]

	if sess.ID != "cs_test_123456" {
		t.Errorf("unexpected session id, got=%q\n", sess.ID)
	}

	if sess.ClientReferenceID != "order_123456" {
		t.Errorf("unexpected client reference id, got=%q\n", sess.ClientReferenceID)
	}
}

func Test_CheckoutHookInvalidSignature(t *testing.T) {
	payload := `{"id": "evt_123456", "type": "checkout.session.completed"}`

	tests := []struct {
		name      string
		signature string
	}{
		{"missing header", ""},
		{"malformed header", "not a signature"},
		{"wrong secret", signPayload([]byte(payload), "whsec_other")},
		{"stale timestamp", fmt.Sprintf("t=%d,v1=%s", time.Now().Add(-time.Hour).Unix(), "deadbeef")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verifyErrs := 0

			cfg := Config{
				WebhookSecret: hookSecret,
				FulfillOrder: func(*CheckoutSession) error {
					t.Error("fulfillment was invoked for an unverified request")
					return nil
				},
			}

			h := CheckoutHook(cfg, func(error) { verifyErrs++ })

			w := postHook(h, payload, test.signature)

			if w.Code != http.StatusBadRequest {
				t.Errorf("unexpected status, expected=%d, got=%d\n", http.StatusBadRequest, w.Code)
			}

			if verifyErrs != 1 {
				t.Errorf("expected 1 verification error, got=%d\n", verifyErrs)
			}
		})
	}
}

func Test_CheckoutHookIgnoresOtherEvents(t *testing.T) {
	payload := `{
		"id": "evt_123456",
		"type": "invoice.paid",
		"data": {
			"object": {
				"id": "in_123456"
			}
		}
	}`

	cfg := Config{
		WebhookSecret: hookSecret,
		FulfillOrder: func(*CheckoutSession) error {
			t.Error("fulfillment was invoked for an unrelated event")
			return nil
		},
	}

	h := CheckoutHook(cfg, func(err error) { t.Error(err) })

	w := postHook(h, payload, signPayload([]byte(payload), hookSecret))

	if w.Code != http.StatusOK {
		t.Errorf("unexpected status, expected=%d, got=%d\n", http.StatusOK, w.Code)
	}
}

func Test_CheckoutHookFulfillError(t *testing.T) {
	payload := `{
		"id": "evt_123456",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123456"
			}
		}
	}`

	cfg := Config{
		WebhookSecret: hookSecret,
		FulfillOrder: func(*CheckoutSession) error {
			return fmt.Errorf("order store unavailable")
		},
	}

	errs := 0

	h := CheckoutHook(cfg, func(error) { errs++ })

	w := postHook(h, payload, signPayload([]byte(payload), hookSecret))

	// A failed fulfillment must not be acknowledged, Stripe redelivers.
	if w.Code != http.StatusInternalServerError {
		t.Errorf("unexpected status, expected=%d, got=%d\n", http.StatusInternalServerError, w.Code)
	}

	if errs != 1 {
		t.Errorf("expected 1 error, got=%d\n", errs)
	}
}
