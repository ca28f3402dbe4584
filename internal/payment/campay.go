package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// CamPay implements Provider against the CamPay mobile-money API. This is
// a push-model integration: CamPay delivers a webhook when the payer
// settles, and the webhook handler cross-checks /transaction/<ref>/ before
// crediting votes. The status endpoint echoes the settled amount, so
// confirmations never rely on the webhook payload's figures.
type CamPay struct {
	http     *http.Client
	baseURL  string
	username string
	password string
	tokens   *tokenCache
}

// NewCamPay builds the client from environment variables:
// CAMPAY_BASE_URL (optional), CAMPAY_USERNAME, CAMPAY_PASSWORD.
func NewCamPay() (*CamPay, error) {
	username := os.Getenv("CAMPAY_USERNAME")
	password := os.Getenv("CAMPAY_PASSWORD")
	if username == "" || password == "" {
		return nil, fmt.Errorf("campay: CAMPAY_USERNAME and CAMPAY_PASSWORD must be set")
	}
	base := os.Getenv("CAMPAY_BASE_URL")
	if base == "" {
		base = "https://www.campay.net/api"
	}
	c := &CamPay{
		http:     &http.Client{Timeout: 30 * time.Second},
		baseURL:  strings.TrimRight(base, "/"),
		username: username,
		password: password,
	}
	c.tokens = newTokenCache(c.authenticate)
	return c, nil
}

// Name identifies the vendor in payment rows and logs.
func (c *CamPay) Name() string { return "campay" }

// authenticate exchanges the app credentials for a token. CamPay reports
// the TTL in seconds; we renew a minute early.
func (c *CamPay) authenticate(ctx context.Context) (string, time.Time, error) {
	body := map[string]string{"username": c.username, "password": c.password}
	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expires_in"`
	}
	if err := c.do(ctx, http.MethodPost, "/token/", "", body, &resp); err != nil {
		return "", time.Time{}, err
	}
	if resp.Token == "" {
		return "", time.Time{}, fmt.Errorf("%w: campay auth returned no token", ErrVendor)
	}
	ttl := time.Duration(resp.ExpiresIn) * time.Second
	if ttl <= time.Minute {
		ttl = time.Hour
	}
	return resp.Token, time.Now().Add(ttl - time.Minute), nil
}

// CreatePayment requests a hosted payment link for the transaction.
func (c *CamPay) CreatePayment(ctx context.Context, req InitiateRequest) (Checkout, error) {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return Checkout{}, err
	}
	body := map[string]interface{}{
		"amount":             strconv.FormatInt(req.Amount, 10),
		"currency":           req.Currency,
		"description":        req.Description,
		"external_reference": req.TransID,
		"redirect_url":       req.RedirectURL,
	}
	var resp struct {
		Link string `json:"link"`
	}
	if err := c.do(ctx, http.MethodPost, "/get_payment_link/", token, body, &resp); err != nil {
		return Checkout{}, err
	}
	if resp.Link == "" {
		return Checkout{}, fmt.Errorf("%w: campay did not return a payment link", ErrVendor)
	}
	return Checkout{PaymentURL: resp.Link}, nil
}

// PaymentStatus queries the authoritative state and settled amount of a
// transaction by its external reference.
func (c *CamPay) PaymentStatus(ctx context.Context, transID string) (Status, error) {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return Status{}, err
	}
	var resp struct {
		Status string `json:"status"`
		Amount string `json:"amount"`
	}
	path := "/transaction/" + url.PathEscape(transID) + "/"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return Status{}, err
	}
	amount, _ := strconv.ParseInt(strings.SplitN(resp.Amount, ".", 2)[0], 10, 64)
	switch strings.ToUpper(resp.Status) {
	case "SUCCESSFUL":
		return Status{State: StateSuccessful, Amount: amount}, nil
	case "FAILED":
		return Status{State: StateFailed, Amount: amount}, nil
	default:
		return Status{State: StatePending, Amount: amount}, nil
	}
}

func (c *CamPay) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVendor, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVendor, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: campay %s returned %d: %s", ErrVendor, path, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: campay %s returned unexpected body: %v", ErrVendor, path, err)
		}
	}
	return nil
}
