package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/handler"
)

// RegisterPayments registers the online vote purchase endpoints. All of
// them are unauthenticated: voters do not hold accounts, and the webhook
// and verify endpoints authenticate by re-querying the vendor rather than
// by trusting the caller.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler) {
	g := e.Group("/api/payments")
	g.POST("/create", p.Create)
	g.GET("/verify", p.Verify)
	// POST verify is the widget-triggered confirmation; it shares the
	// webhook's settle-and-report behavior.
	g.POST("/verify", p.Webhook)
	g.POST("/webhook", p.Webhook)
	g.GET("/status/:trans_id", p.Status)
}
