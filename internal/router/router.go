package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/handler"
)

// RegisterRoutes registers routes that do not belong to any feature group.
// Currently it exposes only a health check, used by load balancers to
// verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated voting-site endpoints:
// artist browsing, the leaderboard, free hand votes and the contact form.
// cacheMW is applied to the read endpoints (they back every page load of
// the voting site); rateMW guards the hand-vote endpoint against scripted
// ballot stuffing.
func RegisterPublic(e *echo.Echo, a *handler.ArtistHandler, m *handler.MessageHandler, cacheMW, rateMW echo.MiddlewareFunc) {
	g := e.Group("/api/artists")
	g.GET("/vote", a.ListForVoting, cacheMW)
	g.GET("/leaderboard", a.Leaderboard, cacheMW)
	g.GET("/:id", a.GetPublic, cacheMW)
	g.POST("/:id/hand-vote", a.HandVote, rateMW)

	e.POST("/api/messages", m.Submit)
}
