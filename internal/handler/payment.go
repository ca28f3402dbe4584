package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/config"
	"github.com/rocimuc/artist-vote/internal/model"
	"github.com/rocimuc/artist-vote/internal/payment"
	"github.com/rocimuc/artist-vote/internal/queue"
	"github.com/rocimuc/artist-vote/internal/repository"
	queue_publisher "github.com/rocimuc/artist-vote/internal/service"
)

// defaultCurrency is the ISO code used for all online payments.
const defaultCurrency = "XAF"

// PaymentHandler drives the online vote purchase flow: initiation against
// the active vendor, confirmation via redirect verification or webhook,
// and the idempotent vote credit shared by both.
type PaymentHandler struct {
	Cfg      config.Config
	Artists  *repository.ArtistRepo
	Payments *repository.PaymentRepo
	Provider payment.Provider
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(cfg config.Config, artists *repository.ArtistRepo, payments *repository.PaymentRepo, provider payment.Provider) *PaymentHandler {
	if artists == nil || payments == nil || provider == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Cfg: cfg, Artists: artists, Payments: payments, Provider: provider}
}

type createPaymentReq struct {
	ArtistID uint64 `json:"artist_id"`
	Amount   int64  `json:"amount"`
}

type paymentStatusResp struct {
	TransID    string `json:"trans_id"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	VotesAdded int64  `json:"votes_added"`
}

// Create handles POST /api/payments/create. It records a PENDING payment under a
// fresh reference and asks the vendor for a checkout URL. Votes are never
// credited here; that only happens once the vendor confirms the money.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ArtistID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "artist_id is required"})
	}
	if req.Amount < h.Cfg.VoteUnitPrice {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must cover at least one vote"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	artist, err := h.Artists.GetByID(ctx, req.ArtistID)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !artist.IsApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "this artist is not open for voting"})
	}

	transID, err := payment.NewReference(artist.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create payment"})
	}
	if _, err := h.Payments.Create(ctx, transID, artist.ID, req.Amount, defaultCurrency, h.Provider.Name()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create payment"})
	}

	checkout, err := h.Provider.CreatePayment(ctx, payment.InitiateRequest{
		TransID:     transID,
		ArtistName:  artist.StageName,
		Amount:      req.Amount,
		Currency:    defaultCurrency,
		Description: "Votes for " + artist.StageName,
		RedirectURL: h.Cfg.BaseURL + "/api/payments/verify?transaction_id=" + transID,
	})
	if err != nil {
		c.Logger().Errorf("vendor initiation failed for %s: %v", transID, err)
		// The PENDING row stays behind and simply never settles.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment vendor unavailable, please try again"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"trans_id":    transID,
		"payment_url": checkout.PaymentURL,
		"amount":      req.Amount,
		"currency":    defaultCurrency,
		"votes":       payment.VotesFor(req.Amount, h.Cfg.VoteUnitPrice),
	})
}

// Verify handles GET /api/payments/verify?transaction_id=..., the redirect
// target voters land on after the vendor checkout. The vendor is re-queried
// before any credit; the query string is never trusted for the outcome.
// The voter is then bounced to the frontend result page.
func (h *PaymentHandler) Verify(c echo.Context) error {
	transID := strings.TrimSpace(c.QueryParam("transaction_id"))
	if transID == "" {
		return c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/payment-failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	state, err := h.settle(ctx, c, transID)
	if err != nil || state != payment.StateSuccessful {
		return c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/payment-failed")
	}
	return c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/payment-success")
}

// Webhook handles POST /api/payments/webhook, the vendor's server-to-server
// notification. Like Verify it re-queries the vendor, so a forged body can
// never credit votes. Always answers 200 for known references so the vendor
// stops retrying.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var body struct {
		TransID string `json:"transaction_id"`
		Ref     string `json:"reference"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	transID := strings.TrimSpace(body.TransID)
	if transID == "" {
		transID = strings.TrimSpace(body.Ref)
	}
	if transID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction reference is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	state, err := h.settle(ctx, c, transID)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown transaction"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not process notification"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": state})
}

// Status handles GET /api/payments/status/:trans_id, the polling endpoint payment
// widgets use. It settles pending payments on the way so a poll right after
// the vendor's push sees the final state.
func (h *PaymentHandler) Status(c echo.Context) error {
	transID := strings.TrimSpace(c.Param("trans_id"))
	if transID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction reference is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if _, err := h.settle(ctx, c, transID); err != nil && err == repository.ErrPaymentNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown transaction"})
	}
	p, err := h.Payments.GetByTransID(ctx, transID)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown transaction"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, paymentStatusResp{
		TransID: p.TransID, Status: p.Status, Amount: p.Amount,
		Currency: p.Currency, VotesAdded: p.VotesAdded,
	})
}

// settle is the single confirmation path shared by Verify, Webhook and
// Status. It loads the recorded payment, short-circuits on terminal states,
// re-queries the vendor for pending ones, and on success claims the payment
// and credits votes in one transaction. Concurrent deliveries race on the
// conditional claim; exactly one wins and only the winner credits votes.
func (h *PaymentHandler) settle(ctx context.Context, c echo.Context, transID string) (string, error) {
	p, err := h.Payments.GetByTransID(ctx, transID)
	if err != nil {
		return "", err
	}
	if p.Status != model.PaymentPending {
		return p.Status, nil
	}

	status, err := h.Provider.PaymentStatus(ctx, transID)
	if err != nil {
		c.Logger().Errorf("vendor status query failed for %s: %v", transID, err)
		return "", err
	}
	switch status.State {
	case payment.StateFailed:
		if err := h.Payments.MarkFailed(ctx, transID); err != nil && err != repository.ErrConflict {
			return "", err
		}
		return payment.StateFailed, nil
	case payment.StateSuccessful:
		// fall through to the credit below
	default:
		return payment.StatePending, nil
	}

	// Vendors that do not echo the amount fall back to what was recorded
	// at initiation.
	amount := status.Amount
	if amount <= 0 {
		amount = p.Amount
	}
	votes := payment.VotesFor(amount, h.Cfg.VoteUnitPrice)

	won, err := h.creditOnline(ctx, p.ArtistID, transID, amount, votes)
	if err != nil {
		return "", err
	}
	if won && votes > 0 {
		artist, aerr := h.Artists.GetByID(ctx, p.ArtistID)
		stage := ""
		if aerr == nil {
			stage = artist.StageName
		}
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = queue_publisher.PublishVoteCredited(pubCtx, queue.VoteCreditedEvent{
				ArtistID:   p.ArtistID,
				StageName:  stage,
				Source:     queue.SourceOnline,
				Votes:      votes,
				Amount:     amount,
				Method:     h.Provider.Name(),
				Reference:  transID,
				CreditedAt: time.Now().UTC().Format(time.RFC3339),
			})
		}()
	}
	return payment.StateSuccessful, nil
}

// creditOnline marks the payment SUCCESSFUL and bumps the artist's online
// vote counter in one database transaction. The conditional claim makes
// redeliveries no-ops: only the delivery that flips PENDING to SUCCESSFUL
// increments the counter. Returns whether this call won the claim.
func (h *PaymentHandler) creditOnline(ctx context.Context, artistID uint64, transID string, amount, votes int64) (bool, error) {
	tx, err := h.Artists.DB().BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	won, err := h.Payments.ClaimSuccessTx(ctx, tx, transID, amount, votes)
	if err != nil {
		return false, err
	}
	if !won {
		// Someone else already settled it; nothing to commit.
		committed = true
		return false, tx.Commit()
	}
	if votes > 0 {
		if err := h.Artists.IncrementOnlineVotesTx(ctx, tx, artistID, votes); err != nil {
			if errors.Is(err, repository.ErrArtistNotFound) {
				// Artist deleted between initiation and confirmation:
				// record the payment outcome, credit nothing.
				committed = true
				return true, tx.Commit()
			}
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}
