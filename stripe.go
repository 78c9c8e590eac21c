package billingflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v72"
)

// Client is a simple HTTP client for the Stripe API. Each request made via
// this client will be configured with the necessary headers for talking to
// the Stripe API. If an account is set on the client, then each request is
// made on behalf of that connected account via the Stripe-Account header.
type Client struct {
	http.Client

	secret   string
	endpoint string
	version  string
	account  string
}

type Error struct {
	Status string `json:"-"`
	Err    struct {
		Message string
		Type    string
	} `json:"error"`
}

// Stripe wraps the Client with the Config that drives the billing flows.
// The provisioning, checkout, and portal session flows all hang off of this
// type.
type Stripe struct {
	Client

	Config Config
}

// Params is used for defining the parameters that are passed in the body of
// a request made to the Stripe API. This will be encoded into a valid
// x-www-form-urlencoded payload using Stripe's bracketed key convention.
type Params map[string]interface{}

// New configures a new Stripe client with the given secret for
// authentication, and the given Config for the billing flows.
func New(secret string, cfg Config) Stripe {
	cl := NewClient(stripe.APIVersion, secret)
	cl.account = cfg.Account

	return Stripe{
		Client: cl,
		Config: cfg,
	}
}

// NewClient configures a new Client for interfacing with the Stripe API
// using the given version, and secret for authentication.
func NewClient(version, secret string) Client {
	return Client{
		secret:   secret,
		endpoint: stripe.APIURL,
		version:  version,
	}
}

func respCode2xx(code int) bool { return code >= 200 && code < 300 }

func (e *Error) Error() string {
	return fmt.Sprintf("billingflow: stripe api error %s: %s", e.Status, e.Err.Message)
}

func encodeParam(set *[]string, key string, val interface{}) {
	switch v := val.(type) {
	case Params:
		for k, v1 := range v {
			encodeParam(set, key+"["+k+"]", v1)
		}
	case []Params:
		for i, p := range v {
			encodeParam(set, key+"["+strconv.Itoa(i)+"]", p)
		}
	case []string:
		for i, s := range v {
			encodeParam(set, key+"["+strconv.Itoa(i)+"]", s)
		}
	default:
		*set = append(*set, key+"="+url.QueryEscape(fmt.Sprintf("%v", v)))
	}
}

// Encode encodes the current Params into an x-www-form-urlencoded string
// and returns it. The encoded pairs are sorted, so the output for any given
// set of Params is deterministic.
func (p Params) Encode() string {
	set := make([]string, 0, len(p))

	for k, v := range p {
		encodeParam(&set, k, v)
	}

	sort.Strings(set)
	return strings.Join(set, "&")
}

// Reader returns an io.Reader for the x-www-form-urlencoded string of the
// current Params.
func (p Params) Reader() io.Reader { return strings.NewReader(p.Encode()) }

func (c Client) do(ctx context.Context, method, uri string, r io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.endpoint, "/")+uri, r)

	if err != nil {
		return nil, err
	}

	contentType := map[string]string{
		"POST":   "application/x-www-form-urlencoded",
		"GET":    "application/json; charset=utf-8",
		"DELETE": "application/json; charset=utf-8",
	}

	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", contentType[method])
	req.Header.Set("Stripe-Version", c.version)

	if c.account != "" {
		req.Header.Set("Stripe-Account", c.account)
	}
	return c.Do(req)
}

// Error decodes an error from the Stripe API from the given http.Response
// and returns it as a pointer to Error.
func (c Client) Error(resp *http.Response) error {
	e := &Error{
		Status: resp.Status,
	}

	if err := json.NewDecoder(resp.Body).Decode(e); err != nil {
		return err
	}
	return e
}

// Get will send a GET request to the given URI of the Stripe API.
func (c Client) Get(ctx context.Context, uri string) (*http.Response, error) {
	return c.do(ctx, "GET", uri, nil)
}

// Post will send a POST request to the given URI of the Stripe API, along
// with the given io.Reader as the request body.
func (c Client) Post(ctx context.Context, uri string, r io.Reader) (*http.Response, error) {
	return c.do(ctx, "POST", uri, r)
}

// Delete will send a DELETE request to the given URI of the Stripe API.
func (c Client) Delete(ctx context.Context, uri string) (*http.Response, error) {
	return c.do(ctx, "DELETE", uri, nil)
}

// Post will send a POST request to the given URI of the Stripe API with the
// given Params as the request body.
func (s Stripe) Post(ctx context.Context, uri string, params Params) (*http.Response, error) {
	return s.Client.Post(ctx, uri, params.Reader())
}

// post sends the given Params to the given URI, and decodes a 2xx response
// into v. A non-2xx response is decoded and returned as *Error.
func (s Stripe) post(ctx context.Context, uri string, params Params, v interface{}) error {
	resp, err := s.Post(ctx, uri, params)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if !respCode2xx(resp.StatusCode) {
		return s.Error(resp)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
