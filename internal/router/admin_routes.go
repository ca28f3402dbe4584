package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/handler"
	"github.com/rocimuc/artist-vote/internal/middleware"
)

// RegisterAdmin registers the admin panel endpoints. Login is open; every
// other route requires a token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, ad *handler.AdminHandler, an *handler.AnalyticsHandler, m *handler.MessageHandler, jwtSecret string) {
	e.POST("/api/users/login", ad.Login)

	g := e.Group(
		"/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAdmin(),
	)
	g.GET("/artists", ad.ListArtists)
	g.PUT("/artists/:id", ad.UpdateArtist)
	g.DELETE("/artists/:id", ad.DeleteArtist)
	g.PUT("/artists/:id/add-financial-votes", ad.AddFinancialVotes)
	g.GET("/artists/:id/ledger", ad.Ledger)
	g.POST("/reconcile", ad.Reconcile)
	g.GET("/analytics", an.Get)
	g.GET("/messages", m.List)
}
