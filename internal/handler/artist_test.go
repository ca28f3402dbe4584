package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/config"
	"github.com/rocimuc/artist-vote/internal/media"
	"github.com/rocimuc/artist-vote/internal/repository"
)

type nopUploader struct{}

func (nopUploader) Upload(ctx context.Context, filename string, data []byte) (media.Asset, error) {
	return media.Asset{PublicID: "p", URL: "https://img.example/p.jpg"}, nil
}

// artistRow builds a full artists row in column order, shared by the
// handler tests that drive the repository through sqlmock.
func artistRow(id uint64, stage string, online, financial, hand int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "name", "stage_name", "age", "cell_number",
		"whatsapp_number", "bio", "image_public_id", "image_url",
		"online_votes", "financial_votes", "hand_votes", "is_approved", "created_at", "updated_at",
	}).AddRow(id, strings.ToLower(stage)+"@example.com", "$2a$10$secret", "Alex Doe", stage,
		25, "650000000", nil, "bio", "p", "https://img.example/p.jpg",
		online, financial, hand, true, now, now)
}

func TestGetProfileReturnsOwnRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("FROM artists WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(artistRow(7, "Axel", 40, 10, 3))

	h := NewArtistHandler(config.Config{}, repository.NewArtistRepo(db), nopUploader{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/artists/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7)) // jwt numeric claims decode as float64

	if err := h.GetProfile(c); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got struct {
		ID            uint64 `json:"id"`
		StageName     string `json:"stage_name"`
		OnlineVotes   int64  `json:"online_votes"`
		HandVotes     int64  `json:"hand_votes"`
		OfficialVotes int64  `json:"official_votes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 7 || got.StageName != "Axel" {
		t.Errorf("identity = (%d, %q), want (7, Axel)", got.ID, got.StageName)
	}
	if got.OnlineVotes != 40 || got.HandVotes != 3 || got.OfficialVotes != 50 {
		t.Errorf("counters = (%d, %d, %d), want (40, 3, 50)",
			got.OnlineVotes, got.HandVotes, got.OfficialVotes)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("response leaks the password hash")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetProfileUnauthenticated(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewArtistHandler(config.Config{}, repository.NewArtistRepo(db), nopUploader{})
	c := newTestContext(t)

	if err := h.GetProfile(c); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if rec := c.Response().Status; rec != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec, http.StatusUnauthorized)
	}
}
