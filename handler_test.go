package billingflow

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func Test_ProvisionHandler(t *testing.T) {
	api := newTestAPI(t)
	api.respond("/v1/customers", `{"id": "cus_123456", "email": "me@example.com"}`)
	api.respond("/v1/subscriptions", `{"id": "sub_123456", "status": "trialing"}`)

	s := api.stripe(Config{DefaultPriceID: "price_pro", UseTrial: true})

	w := postJSON(ProvisionHandler(s, discardLogger()), `{"email": "me@example.com", "name": "Me"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ProvisionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "cus_123456", resp.Customer.ID)
	assert.Equal(t, "sub_123456", resp.Subscription.ID)

	form := api.sent("/v1/customers")[0].form
	assert.Equal(t, "me@example.com", form.Get("email"))
	assert.Equal(t, "Me", form.Get("name"))
}

func Test_ProvisionHandlerBadRequest(t *testing.T) {
	api := newTestAPI(t)

	s := api.stripe(Config{DefaultPriceID: "price_pro"})

	w := postJSON(ProvisionHandler(s, discardLogger()), `{"email": `)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, api.sent("/v1/customers"))
}

func Test_ProvisionHandlerStripeError(t *testing.T) {
	api := newTestAPI(t)
	api.fail("/v1/customers", http.StatusBadRequest, "Missing required param: email.")

	s := api.stripe(Config{DefaultPriceID: "price_pro"})

	w := postJSON(ProvisionHandler(s, discardLogger()), `{"email": ""}`)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp struct {
		Error string `json:"error"`
	}

	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "Missing required param")
}

func Test_PortalHandler(t *testing.T) {
	api := newTestAPI(t)
	api.respond("/v1/billing_portal/sessions", `{"id": "bps_123456", "url": "https://billing.stripe.com/session/xyz"}`)

	s := api.stripe(Config{})

	w := postJSON(PortalHandler(s, discardLogger()), `{"customer_id": "cus_123456", "return_url": "https://example.com/account"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp PortalResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "https://billing.stripe.com/session/xyz", resp.URL)
}

func Test_CheckoutHandler(t *testing.T) {
	api := newTestAPI(t)
	api.respond("/v1/checkout/sessions", `{"id": "cs_test_123456"}`)

	s := api.stripe(Config{})

	w := postJSON(CheckoutHandler(s, discardLogger()), `{
		"client_reference_id": "order_123456",
		"customer_id": "cus_123456",
		"price_id": "price_123456",
		"success_url": "https://example.com/thanks",
		"cancel_url": "https://example.com/cancel"
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CheckoutResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "cs_test_123456", resp.ID)

	form := api.sent("/v1/checkout/sessions")[0].form
	assert.Equal(t, "order_123456", form.Get("client_reference_id"))
	assert.Equal(t, "price_123456", form.Get("line_items[0][price]"))
}
