package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeAccountPe mimics the payin API's three endpoints and counts auth
// calls so tests can assert token reuse.
func fakeAccountPe(t *testing.T, authCalls *int32, status string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/auth":
			atomic.AddInt32(authCalls, 1)
			var creds struct{ Email, Password string }
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds.Email != "api@test" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
		case "/create_payment_links":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			var req map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["transaction_id"] == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]string{"payment_link": "https://pay.example/p/abc"},
			})
		case "/payment_link_status":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestAccountPe(t *testing.T, baseURL string) *AccountPe {
	t.Helper()
	t.Setenv("ACCOUNTPE_EMAIL", "api@test")
	t.Setenv("ACCOUNTPE_PASSWORD", "pw")
	t.Setenv("ACCOUNTPE_BASE_URL", baseURL)
	a, err := NewAccountPe()
	if err != nil {
		t.Fatalf("NewAccountPe: %v", err)
	}
	return a
}

func TestAccountPeCreatePayment(t *testing.T) {
	var authCalls int32
	srv := fakeAccountPe(t, &authCalls, "pending")
	defer srv.Close()
	a := newTestAccountPe(t, srv.URL)

	out, err := a.CreatePayment(context.Background(), InitiateRequest{
		TransID:  "VOTE-1-deadbeef",
		Amount:   500,
		Currency: "XAF",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if out.PaymentURL != "https://pay.example/p/abc" {
		t.Errorf("PaymentURL = %q", out.PaymentURL)
	}
}

func TestAccountPeTokenReuse(t *testing.T) {
	var authCalls int32
	srv := fakeAccountPe(t, &authCalls, "pending")
	defer srv.Close()
	a := newTestAccountPe(t, srv.URL)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := a.PaymentStatus(ctx, "VOTE-1-deadbeef"); err != nil {
			t.Fatalf("PaymentStatus: %v", err)
		}
	}
	if n := atomic.LoadInt32(&authCalls); n != 1 {
		t.Errorf("auth called %d times, want 1", n)
	}
}

func TestAccountPeStatusMapping(t *testing.T) {
	tests := []struct {
		vendor string
		want   string
	}{
		{"success", StateSuccessful},
		{"completed", StateSuccessful},
		{"failed", StateFailed},
		{"cancelled", StateFailed},
		{"expired", StateFailed},
		{"pending", StatePending},
		{"weird", StatePending},
	}
	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			var authCalls int32
			srv := fakeAccountPe(t, &authCalls, tt.vendor)
			defer srv.Close()
			a := newTestAccountPe(t, srv.URL)

			st, err := a.PaymentStatus(context.Background(), "VOTE-1-deadbeef")
			if err != nil {
				t.Fatalf("PaymentStatus: %v", err)
			}
			if st.State != tt.want {
				t.Errorf("state = %q, want %q", st.State, tt.want)
			}
			if st.Amount != 0 {
				t.Errorf("amount = %d, want 0 (endpoint does not echo amounts)", st.Amount)
			}
		})
	}
}

func TestAccountPeVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	a := newTestAccountPe(t, srv.URL)

	_, err := a.CreatePayment(context.Background(), InitiateRequest{TransID: "x"})
	if !errors.Is(err, ErrVendor) {
		t.Fatalf("err = %v, want ErrVendor", err)
	}
}
