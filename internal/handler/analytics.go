package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/repository"
)

// AnalyticsHandler serves the admin dashboard aggregates.
type AnalyticsHandler struct {
	Analytics *repository.AnalyticsRepo
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(analytics *repository.AnalyticsRepo) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

// parseRange maps the ?range= query value to a cutoff time. The zero time
// means "no cutoff". Unknown values fall back to 30 days.
func parseRange(s string) time.Time {
	now := time.Now().UTC()
	switch s {
	case "7d":
		return now.AddDate(0, 0, -7)
	case "30d", "":
		return now.AddDate(0, 0, -30)
	case "90d":
		return now.AddDate(0, 0, -90)
	case "all":
		return time.Time{}
	}
	return now.AddDate(0, 0, -30)
}

// Get handles GET /api/admin/analytics?range=7d|30d|90d|all. Totals and
// per-status/per-method breakdowns are all-time; revenue and the daily
// trends honor the requested range.
func (h *AnalyticsHandler) Get(c echo.Context) error {
	since := parseRange(c.QueryParam("range"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	artists, err := h.Analytics.CountApprovedArtists(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}
	totals, err := h.Analytics.SumVoteCounters(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}
	onlineRevenue, err := h.Analytics.OnlineRevenue(ctx, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}
	manualRevenue, err := h.Analytics.ManualRevenue(ctx, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}
	byStatus, err := h.Analytics.PaymentStatsByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}
	byMethod, err := h.Analytics.ManualStatsByMethod(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}
	onlineTrend, err := h.Analytics.OnlineTrend(ctx, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}
	manualTrend, err := h.Analytics.ManualTrend(ctx, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"approved_artists":       artists,
		"vote_totals":            totals,
		"official_votes":         totals.Online + totals.Financial,
		"total_votes":            totals.Online + totals.Financial + totals.Hand,
		"online_revenue":         onlineRevenue,
		"manual_revenue":         manualRevenue,
		"total_revenue":          onlineRevenue + manualRevenue,
		"payments_by_status":     byStatus,
		"manual_votes_by_method": byMethod,
		"online_trend":           onlineTrend,
		"manual_trend":           manualTrend,
	})
}
