package handler

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/config"
	"github.com/rocimuc/artist-vote/internal/media"
	"github.com/rocimuc/artist-vote/internal/queue"
	"github.com/rocimuc/artist-vote/internal/repository"
	queue_publisher "github.com/rocimuc/artist-vote/internal/service"
	"github.com/rocimuc/artist-vote/internal/utils"
)

// maxImageBytes bounds the profile picture size accepted at registration.
const maxImageBytes = 8 << 20

// ArtistHandler bundles dependencies for artist registration, login,
// profile management and the public voting projections.
type ArtistHandler struct {
	Cfg      config.Config
	Artists  *repository.ArtistRepo
	Uploader media.Uploader
}

// NewArtistHandler constructs a new ArtistHandler with the provided
// dependencies. All dependencies must be non-nil.
func NewArtistHandler(cfg config.Config, artists *repository.ArtistRepo, uploader media.Uploader) *ArtistHandler {
	if artists == nil || uploader == nil {
		panic("nil dependency passed to NewArtistHandler")
	}
	return &ArtistHandler{Cfg: cfg, Artists: artists, Uploader: uploader}
}

// ----- DTOs -----

type artistAuthResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	StageName string    `json:"stage_name"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Expires   time.Time `json:"expires"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileReq struct {
	Name      *string `json:"name"`
	StageName *string `json:"stage_name"`
	Bio       *string `json:"bio"`
	Password  *string `json:"password"`
}

type publicArtist struct {
	ID        uint64 `json:"id"`
	StageName string `json:"stage_name"`
	ImageURL  string `json:"image_url"`
}

type votingArtist struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	StageName     string `json:"stage_name"`
	Bio           string `json:"bio"`
	ImageURL      string `json:"image_url"`
	OfficialVotes int64  `json:"official_votes"`
	HandVotes     int64  `json:"hand_votes"`
}

// Register handles POST /api/artists/register. The request is multipart:
// profile fields plus an "image" file part. The image requirement is
// validated before anything touches the asset host, and duplicate emails
// are rejected without creating a record.
func (h *ArtistHandler) Register(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	stageName := strings.TrimSpace(c.FormValue("stage_name"))
	cellNumber := strings.TrimSpace(c.FormValue("cell_number"))
	bio := strings.TrimSpace(c.FormValue("bio"))
	if name == "" || email == "" || password == "" || stageName == "" || cellNumber == "" || bio == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email, password, stage_name, cell_number and bio are required"})
	}
	age, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("age")), 10, 32)
	if err != nil || age == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid age is required"})
	}
	var whatsapp *string
	if w := strings.TrimSpace(c.FormValue("whatsapp_number")); w != "" {
		whatsapp = &w
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a profile picture is required"})
	}
	if fh.Size > maxImageBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "profile picture too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read profile picture"})
	}
	imageBytes, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	_ = src.Close()
	if err != nil || len(imageBytes) == 0 || len(imageBytes) > maxImageBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read profile picture"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	// Reject duplicates before the (expensive) upload.
	if _, err := h.Artists.GetByEmail(ctx, email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "an artist with this email already exists"})
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	asset, err := h.Uploader.Upload(ctx, fh.Filename, imageBytes)
	if err != nil {
		c.Logger().Errorf("image upload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed, please try again"})
	}

	id, err := h.Artists.Create(ctx, repository.NewArtistParams{
		Email:          email,
		Password:       password,
		Name:           name,
		StageName:      stageName,
		Age:            uint32(age),
		CellNumber:     cellNumber,
		WhatsappNumber: whatsapp,
		Bio:            bio,
		ImagePublicID:  asset.PublicID,
		ImageURL:       asset.URL,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "an artist with this email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create artist failed"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, utils.RoleArtist, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, artistAuthResp{
		ID: id, Name: name, StageName: stageName, Email: email,
		Token: token.Token, Expires: token.Exp,
	})
}

// Login handles POST /api/artists/login and returns a signed session token.
func (h *ArtistHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Artists.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, utils.RoleArtist, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, artistAuthResp{
		ID: a.ID, Name: a.Name, StageName: a.StageName, Email: a.Email,
		Token: token.Token, Expires: token.Exp,
	})
}

// GetProfile handles GET /api/artists/profile: the authenticated artist's
// own record, vote counters included, password hash excluded.
func (h *ArtistHandler) GetProfile(c echo.Context) error {
	artistID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Artists.GetByID(ctx, artistID)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toArtistDetail(a))
}

// UpdateProfile handles PUT /api/artists/profile. Nil fields are left
// unchanged; a fresh token is returned so clients pick up identity changes
// immediately.
func (h *ArtistHandler) UpdateProfile(c echo.Context) error {
	artistID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := repository.UpdateProfileParams{
		Name:      req.Name,
		StageName: req.StageName,
		Bio:       req.Bio,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		patch.PasswordHash = &hash
	}
	if err := h.Artists.UpdateProfile(ctx, artistID, patch); err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	a, err := h.Artists.GetByID(ctx, artistID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load artist failed"})
	}
	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, utils.RoleArtist, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, artistAuthResp{
		ID: a.ID, Name: a.Name, StageName: a.StageName, Email: a.Email,
		Token: token.Token, Expires: token.Exp,
	})
}

// GetPublic handles GET /api/artists/:id and returns only the fields the
// public voting page needs.
func (h *ArtistHandler) GetPublic(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artist id"})
	}
	a, err := h.Artists.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, publicArtist{ID: a.ID, StageName: a.StageName, ImageURL: a.ImageURL})
}

// ListForVoting handles GET /api/artists/vote: all approved artists with
// the tallies the voting page displays.
func (h *ArtistHandler) ListForVoting(c echo.Context) error {
	artists, err := h.Artists.ListApproved(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]votingArtist, 0, len(artists))
	for _, a := range artists {
		out = append(out, votingArtist{
			ID: a.ID, Name: a.Name, StageName: a.StageName, Bio: a.Bio,
			ImageURL: a.ImageURL, OfficialVotes: a.OfficialVotes(), HandVotes: a.HandVotes,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Leaderboard handles GET /api/artists/leaderboard. Ranking is by official
// votes (online + financial) descending with a deterministic id tiebreak;
// hand votes are returned as a separate tally only.
func (h *ArtistHandler) Leaderboard(c echo.Context) error {
	limit := 10
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	artists, err := h.Artists.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not retrieve leaderboard"})
	}
	type entry struct {
		ID            uint64 `json:"id"`
		StageName     string `json:"stage_name"`
		ImageURL      string `json:"image_url"`
		OfficialVotes int64  `json:"official_votes"`
		HandVotes     int64  `json:"hand_votes"`
	}
	out := make([]entry, 0, len(artists))
	for _, a := range artists {
		out = append(out, entry{
			ID: a.ID, StageName: a.StageName, ImageURL: a.ImageURL,
			OfficialVotes: a.OfficialVotes(), HandVotes: a.HandVotes,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// HandVote handles POST /api/artists/:id/hand-vote. It is public and
// unauthenticated and credits exactly one hand vote atomically.
func (h *ArtistHandler) HandVote(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artist id"})
	}
	count, err := h.Artists.IncrementHandVotes(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error processing your vote"})
	}

	// Best effort: a lost event never fails a credited vote.
	go func(artistID uint64) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishVoteCredited(ctx, queue.VoteCreditedEvent{
			ArtistID:   artistID,
			Source:     queue.SourceHand,
			Votes:      1,
			CreditedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}(id)

	return c.JSON(http.StatusOK, echo.Map{"new_hand_vote_count": count})
}
