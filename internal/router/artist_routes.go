package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/handler"
	"github.com/rocimuc/artist-vote/internal/middleware"
	"github.com/rocimuc/artist-vote/internal/utils"
)

// RegisterArtist registers artist account endpoints. Registration and
// login are open; profile management requires a valid artist token.
func RegisterArtist(e *echo.Echo, a *handler.ArtistHandler, jwtSecret string) {
	e.POST("/api/artists/register", a.Register)
	e.POST("/api/artists/login", a.Login)

	g := e.Group(
		"/api/artists",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleArtist),
	)
	g.GET("/profile", a.GetProfile)
	g.PUT("/profile", a.UpdateProfile)
}
