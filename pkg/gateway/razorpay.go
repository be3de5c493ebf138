package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.razorpay.com/v1"
	defaultCurrency             = "INR"
	responseBodyReadLimit int64 = 1 << 16
)

var (
	errKeyIDRequiredError = errors.New("razorpay key id is required")
	errSecretRequired     = errors.New("razorpay key secret is required")
)

// Client wraps the Razorpay orders API used for online payment collection.
type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	currency   string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Razorpay base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithCurrency overrides the settlement currency.
func WithCurrency(currency string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(currency)
		if trimmed != "" {
			c.currency = strings.ToUpper(trimmed)
		}
	}
}

// NewClient builds the Razorpay client given API credentials.
func NewClient(keyID, keySecret string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(keyID)
	if trimmedKey == "" {
		return nil, errKeyIDRequiredError
	}
	trimmedSecret := strings.TrimSpace(keySecret)
	if trimmedSecret == "" {
		return nil, errSecretRequired
	}

	client := &Client{
		keyID:      trimmedKey,
		keySecret:  trimmedSecret,
		baseURL:    defaultBaseURL,
		currency:   defaultCurrency,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers a collection order with the gateway and returns the
// gateway-side order identifier. The amount is in the currency's smallest
// unit (paise for INR).
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (string, error) {
	if amountPaise <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	payload, err := json.Marshal(createOrderRequest{
		Amount:   amountPaise,
		Currency: c.currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding gateway order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling payment gateway")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading gateway response")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	var decoded createOrderResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding gateway response")
	}
	if decoded.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gateway order id missing")
	}
	return decoded.ID, nil
}

// VerifySignature checks the HMAC-SHA256 the gateway sends with a capture
// callback. The signed message is "<orderID>|<paymentID>" keyed with the
// shared secret; comparison is constant time.
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
