package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moamoa-kids/moamoa-web/internal/core"
)

// ChatHandlers exposes the chat demo widget over REST and SSE.
type ChatHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance.
func NewChatHandlers(hub *core.Hub, logger *zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{hub: hub, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a chat message in API responses.
type MessageResponse struct {
	ID        int64  `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// SessionResponse represents a chat session in API responses.
type SessionResponse struct {
	ID       string            `json:"id"`
	Messages []MessageResponse `json:"messages"`
	IsTyping bool              `json:"is_typing"`
	HTML     string            `json:"html"`
}

// ReplyRequest represents a quick reply submission.
type ReplyRequest struct {
	Text string `json:"text"`
}

// ReplyResponse reports whether the quick reply was accepted.
type ReplyResponse struct {
	Accepted bool              `json:"accepted"`
	Messages []MessageResponse `json:"messages"`
	IsTyping bool              `json:"is_typing"`
}

// QuickReplyResponse represents a predefined quick reply.
type QuickReplyResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CreateSession opens a chat demo seeded with the greeting.
// POST /api/chat/sessions
func (h *ChatHandlers) CreateSession(c *gin.Context) {
	info, err := h.hub.Open(c.Request.Context())
	if err != nil {
		h.hubError(c, err, "failed to open chat session")
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(info))
}

// GetSession returns the state of a chat demo.
// GET /api/chat/sessions/:id
func (h *ChatHandlers) GetSession(c *gin.Context) {
	info, err := h.hub.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.hubError(c, err, "failed to read chat session")
		return
	}
	c.JSON(http.StatusOK, sessionResponse(info))
}

// RenderSession returns the widget markup.
// GET /api/chat/sessions/:id/render
func (h *ChatHandlers) RenderSession(c *gin.Context) {
	info, err := h.hub.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.hubError(c, err, "failed to render chat session")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(info.HTML))
}

// SubmitReply submits a quick reply. Ignored submissions answer 200 with accepted=false.
// POST /api/chat/sessions/:id/replies
func (h *ChatHandlers) SubmitReply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid reply request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	res, err := h.hub.Submit(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		h.hubError(c, err, "failed to submit quick reply")
		return
	}

	status := http.StatusOK
	if res.Accepted {
		status = http.StatusAccepted
	}
	c.JSON(status, ReplyResponse{
		Accepted: res.Accepted,
		Messages: messageResponses(res.State.Messages),
		IsTyping: res.State.IsTyping,
	})
}

// DeleteSession discards a chat demo.
// DELETE /api/chat/sessions/:id
func (h *ChatHandlers) DeleteSession(c *gin.Context) {
	if err := h.hub.Close(c.Request.Context(), c.Param("id")); err != nil {
		h.hubError(c, err, "failed to close chat session")
		return
	}
	c.Status(http.StatusNoContent)
}

// QuickReplies lists the predefined quick replies.
// GET /api/chat/quick-replies
func (h *ChatHandlers) QuickReplies(c *gin.Context) {
	replies := h.hub.Catalog().QuickReplies()
	response := make([]QuickReplyResponse, 0, len(replies))
	for _, r := range replies {
		response = append(response, QuickReplyResponse{ID: r.ID, Text: r.Text})
	}
	c.JSON(http.StatusOK, response)
}

// Events streams session events as server-sent events.
// GET /api/chat/sessions/:id/events
func (h *ChatHandlers) Events(c *gin.Context) {
	ctx := c.Request.Context()
	sub := core.NewSubscriber(uuid.NewString(), c.Param("id"))
	if err := h.hub.Subscribe(ctx, sub); err != nil {
		h.hubError(c, err, "failed to subscribe to chat session")
		return
	}
	defer func() {
		if err := h.hub.Unsubscribe(context.Background(), sub); err != nil {
			h.log.Debug().Err(err).Str("session_id", sub.SessionID).Msg("unsubscribe sse")
		}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(_ io.Writer) bool {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return false
			}
			out := outboundFromEvent(event)
			c.SSEvent(out.Event, out.Data)
			return event.Kind != core.EventClosed
		case <-ctx.Done():
			return false
		}
	})
}

func (h *ChatHandlers) hubError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "chat session not found"})
	case errors.Is(err, core.ErrHubStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
	default:
		h.log.Error().Err(err).Str("session_id", c.Param("id")).Msg(msg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func sessionResponse(info core.SessionInfo) SessionResponse {
	return SessionResponse{
		ID:       info.ID,
		Messages: messageResponses(info.State.Messages),
		IsTyping: info.State.IsTyping,
		HTML:     string(info.HTML),
	}
}

func messageResponses(msgs []core.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse{
			ID:        m.ID,
			Sender:    string(m.Sender),
			Text:      m.Text,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}
