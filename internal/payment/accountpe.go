package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// AccountPe implements Provider against the AccountPe "Payin" API. This is
// a redirect-model integration: initiation returns a hosted payment link,
// and confirmation must re-query /payment_link_status because the redirect
// back to our verify endpoint carries nothing trustworthy.
//
// Every call except /admin/auth carries a bearer token obtained from
// /admin/auth and cached for 23 hours.
type AccountPe struct {
	http     *http.Client
	baseURL  string
	email    string
	password string
	tokens   *tokenCache
}

// NewAccountPe builds the client from environment variables:
// ACCOUNTPE_BASE_URL (optional), ACCOUNTPE_EMAIL, ACCOUNTPE_PASSWORD.
func NewAccountPe() (*AccountPe, error) {
	email := os.Getenv("ACCOUNTPE_EMAIL")
	password := os.Getenv("ACCOUNTPE_PASSWORD")
	if email == "" || password == "" {
		return nil, fmt.Errorf("accountpe: ACCOUNTPE_EMAIL and ACCOUNTPE_PASSWORD must be set")
	}
	base := os.Getenv("ACCOUNTPE_BASE_URL")
	if base == "" {
		base = "https://api.accountpe.com/api/payin"
	}
	a := &AccountPe{
		http:     &http.Client{Timeout: 30 * time.Second},
		baseURL:  strings.TrimRight(base, "/"),
		email:    email,
		password: password,
	}
	a.tokens = newTokenCache(a.authenticate)
	return a, nil
}

// Name identifies the vendor in payment rows and logs.
func (a *AccountPe) Name() string { return "accountpe" }

// authenticate exchanges the account credentials for a bearer token. The
// API does not report a TTL; tokens are observed to live 24h, so we cache
// for 23.
func (a *AccountPe) authenticate(ctx context.Context) (string, time.Time, error) {
	body := map[string]string{"email": a.email, "password": a.password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := a.post(ctx, "/admin/auth", "", body, &resp); err != nil {
		return "", time.Time{}, err
	}
	if resp.Token == "" {
		return "", time.Time{}, fmt.Errorf("%w: accountpe auth returned no token", ErrVendor)
	}
	return resp.Token, time.Now().Add(23 * time.Hour), nil
}

// CreatePayment opens a hosted payment link for the transaction.
func (a *AccountPe) CreatePayment(ctx context.Context, req InitiateRequest) (Checkout, error) {
	token, err := a.tokens.Get(ctx)
	if err != nil {
		return Checkout{}, err
	}
	body := map[string]interface{}{
		"country_code":        "CM",
		"currency":            req.Currency,
		"amount":              req.Amount,
		"name":                req.ArtistName,
		"email":               "noemail@artistvote.com",
		"transaction_id":      req.TransID,
		"description":         req.Description,
		"pass_digital_charge": true,
		"redirect_url":        req.RedirectURL,
	}
	var resp struct {
		Data struct {
			PaymentLink string `json:"payment_link"`
		} `json:"data"`
	}
	if err := a.post(ctx, "/create_payment_links", token, body, &resp); err != nil {
		return Checkout{}, err
	}
	if resp.Data.PaymentLink == "" {
		return Checkout{}, fmt.Errorf("%w: accountpe did not return a payment link", ErrVendor)
	}
	return Checkout{PaymentURL: resp.Data.PaymentLink}, nil
}

// PaymentStatus queries the authoritative status of a payment link. The
// endpoint does not echo the amount, so Status.Amount is always zero and
// callers use the amount recorded at initiation.
func (a *AccountPe) PaymentStatus(ctx context.Context, transID string) (Status, error) {
	token, err := a.tokens.Get(ctx)
	if err != nil {
		return Status{}, err
	}
	body := map[string]string{"transaction_id": transID}
	var resp struct {
		Status string `json:"status"`
	}
	if err := a.post(ctx, "/payment_link_status", token, body, &resp); err != nil {
		return Status{}, err
	}
	switch strings.ToLower(resp.Status) {
	case "success", "completed":
		return Status{State: StateSuccessful}, nil
	case "failed", "cancelled", "canceled", "expired":
		return Status{State: StateFailed}, nil
	default:
		return Status{State: StatePending}, nil
	}
}

func (a *AccountPe) post(ctx context.Context, path, token string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVendor, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVendor, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: accountpe %s returned %d: %s", ErrVendor, path, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: accountpe %s returned unexpected body: %v", ErrVendor, path, err)
		}
	}
	return nil
}
