package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/repository"
)

// MessageHandler takes contact-form submissions and lets admins read them.
type MessageHandler struct {
	Messages *repository.MessageRepo
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messages *repository.MessageRepo) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

type submitMessageReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Submit handles POST /api/messages, the public contact form.
func (h *MessageHandler) Submit(c echo.Context) error {
	var req submitMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Body = strings.TrimSpace(req.Body)
	if req.Name == "" || req.Email == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and body are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Messages.Create(ctx, req.Name, req.Email, req.Subject, req.Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save message"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List handles GET /api/admin/messages.
func (h *MessageHandler) List(c echo.Context) error {
	msgs, err := h.Messages.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type msg struct {
		ID        uint64    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Subject   string    `json:"subject"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]msg, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, msg{ID: m.ID, Name: m.Name, Email: m.Email, Subject: m.Subject, Body: m.Body, CreatedAt: m.CreatedAt})
	}
	return c.JSON(http.StatusOK, out)
}
