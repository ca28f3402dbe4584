package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/config"
	"github.com/rocimuc/artist-vote/internal/model"
	"github.com/rocimuc/artist-vote/internal/queue"
	"github.com/rocimuc/artist-vote/internal/repository"
	queue_publisher "github.com/rocimuc/artist-vote/internal/service"
	"github.com/rocimuc/artist-vote/internal/utils"
)

// AdminHandler covers the admin panel: staff login, artist management,
// manual financial vote entry and ledger inspection.
type AdminHandler struct {
	Cfg         config.Config
	Users       *repository.UserRepo
	Artists     *repository.ArtistRepo
	Payments    *repository.PaymentRepo
	ManualVotes *repository.ManualVoteRepo
	Analytics   *repository.AnalyticsRepo
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(cfg config.Config, users *repository.UserRepo, artists *repository.ArtistRepo,
	payments *repository.PaymentRepo, manual *repository.ManualVoteRepo, analytics *repository.AnalyticsRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Artists: artists, Payments: payments, ManualVotes: manual, Analytics: analytics}
}

// Login handles POST /api/users/login. Only users flagged as admins get a
// token; a valid password on a non-admin account is still a 401.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) || !u.IsAdmin {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, utils.RoleAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id": u.ID, "name": u.Name, "email": u.Email,
		"token": token.Token, "expires": token.Exp,
	})
}

type artistDetail struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	StageName      string    `json:"stage_name"`
	Email          string    `json:"email"`
	Age            uint32    `json:"age"`
	CellNumber     string    `json:"cell_number"`
	WhatsappNumber *string   `json:"whatsapp_number"`
	Bio            string    `json:"bio"`
	ImageURL       string    `json:"image_url"`
	OnlineVotes    int64     `json:"online_votes"`
	FinancialVotes int64     `json:"financial_votes"`
	HandVotes      int64     `json:"hand_votes"`
	OfficialVotes  int64     `json:"official_votes"`
	IsApproved     bool      `json:"is_approved"`
	CreatedAt      time.Time `json:"created_at"`
}

func toArtistDetail(a model.Artist) artistDetail {
	return artistDetail{
		ID: a.ID, Name: a.Name, StageName: a.StageName, Email: a.Email,
		Age: a.Age, CellNumber: a.CellNumber, WhatsappNumber: a.WhatsappNumber,
		Bio: a.Bio, ImageURL: a.ImageURL,
		OnlineVotes: a.OnlineVotes, FinancialVotes: a.FinancialVotes,
		HandVotes: a.HandVotes, OfficialVotes: a.OfficialVotes(),
		IsApproved: a.IsApproved, CreatedAt: a.CreatedAt,
	}
}

// ListArtists handles GET /api/admin/artists: every artist with the full
// per-source vote breakdown, approval state included.
func (h *AdminHandler) ListArtists(c echo.Context) error {
	artists, err := h.Artists.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]artistDetail, 0, len(artists))
	for _, a := range artists {
		out = append(out, toArtistDetail(a))
	}
	return c.JSON(http.StatusOK, out)
}

type adminUpdateArtistReq struct {
	Name       *string `json:"name"`
	StageName  *string `json:"stage_name"`
	Bio        *string `json:"bio"`
	IsApproved *bool   `json:"is_approved"`
}

// UpdateArtist handles PUT /api/admin/artists/:id: profile edits plus the
// approval switch that shows or hides the artist on the voting page.
func (h *AdminHandler) UpdateArtist(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artist id"})
	}
	var req adminUpdateArtistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.Name != nil || req.StageName != nil || req.Bio != nil {
		err := h.Artists.UpdateProfile(ctx, id, repository.UpdateProfileParams{
			Name: req.Name, StageName: req.StageName, Bio: req.Bio,
		})
		if err != nil {
			if err == repository.ErrArtistNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	if req.IsApproved != nil {
		if err := h.Artists.SetApproved(ctx, id, *req.IsApproved); err != nil {
			if err == repository.ErrArtistNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toArtistDetail(a))
}

// DeleteArtist handles DELETE /api/admin/artists/:id. The artist and both
// of its ledgers go in one transaction.
func (h *AdminHandler) DeleteArtist(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artist id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Artists.DeleteCascade(ctx, id); err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

type addFinancialVotesReq struct {
	VotesToAdd    int64  `json:"votes_to_add"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// AddFinancialVotes handles PUT /api/admin/artists/:id/add-financial-votes.
// The ledger entry and the counter bump share a transaction, so the
// financial_votes counter always equals the sum of the artist's entries.
func (h *AdminHandler) AddFinancialVotes(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	artistID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artist id"})
	}
	var req addFinancialVotesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VotesToAdd <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "votes_to_add must be a positive integer"})
	}
	if req.Amount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount cannot be negative"})
	}
	if !model.ValidManualMethod(req.PaymentMethod) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be cash, bank_transfer or mobile_money"})
	}
	votes := req.VotesToAdd

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	artist, err := h.Artists.GetByID(ctx, artistID)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	entry := model.ManualVote{
		ArtistID:      artistID,
		AdminUserID:   adminID,
		Amount:        req.Amount,
		VotesAdded:    votes,
		PaymentMethod: req.PaymentMethod,
	}
	if n := strings.TrimSpace(req.Notes); n != "" {
		entry.Notes = &n
	}

	tx, err := h.Artists.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "credit failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.ManualVotes.CreateTx(ctx, tx, &entry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "credit failed"})
	}
	if err := h.Artists.IncrementFinancialVotesTx(ctx, tx, artistID, votes); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "credit failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "credit failed"})
	}
	committed = true

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishVoteCredited(pubCtx, queue.VoteCreditedEvent{
			ArtistID:   artistID,
			StageName:  artist.StageName,
			Source:     queue.SourceFinancial,
			Votes:      votes,
			Amount:     req.Amount,
			Method:     req.PaymentMethod,
			CreditedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"entry_id":    entry.ID,
		"artist_id":   artistID,
		"votes_added": votes,
		"amount":      req.Amount,
	})
}

// Ledger handles GET /api/admin/artists/:id/ledger: the artist's online
// payment attempts and manual entries side by side.
func (h *AdminHandler) Ledger(c echo.Context) error {
	artistID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artist id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if ok, err := h.Artists.Exists(ctx, artistID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
	}

	payments, err := h.Payments.ListByArtist(ctx, artistID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	manual, err := h.ManualVotes.ListByArtist(ctx, artistID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	type onlineEntry struct {
		TransID    string    `json:"trans_id"`
		Amount     int64     `json:"amount"`
		Currency   string    `json:"currency"`
		Status     string    `json:"status"`
		Method     string    `json:"payment_method"`
		VotesAdded int64     `json:"votes_added"`
		CreatedAt  time.Time `json:"created_at"`
	}
	type manualEntry struct {
		ID          uint64    `json:"id"`
		AdminUserID uint64    `json:"admin_user_id"`
		Amount      int64     `json:"amount"`
		VotesAdded  int64     `json:"votes_added"`
		Method      string    `json:"payment_method"`
		Notes       *string   `json:"notes"`
		CreatedAt   time.Time `json:"created_at"`
	}
	online := make([]onlineEntry, 0, len(payments))
	for _, p := range payments {
		online = append(online, onlineEntry{
			TransID: p.TransID, Amount: p.Amount, Currency: p.Currency,
			Status: p.Status, Method: p.PaymentMethod, VotesAdded: p.VotesAdded,
			CreatedAt: p.CreatedAt,
		})
	}
	man := make([]manualEntry, 0, len(manual))
	for _, m := range manual {
		man = append(man, manualEntry{
			ID: m.ID, AdminUserID: m.AdminUserID, Amount: m.Amount,
			VotesAdded: m.VotesAdded, Method: m.PaymentMethod, Notes: m.Notes,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"artist_id":    artistID,
		"payments":     online,
		"manual_votes": man,
	})
}

// Reconcile handles POST /api/admin/reconcile: removes ledger rows whose
// artist no longer exists. Deletions of artists are transactional, so this
// normally finds nothing; it exists for recovery after manual database
// surgery.
func (h *AdminHandler) Reconcile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	manual, payments, err := h.Analytics.DeleteOrphans(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconciliation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"orphan_payments_removed":     payments,
		"orphan_manual_votes_removed": manual,
	})
}
