package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moamoa-kids/moamoa-web/internal/core"
	"github.com/moamoa-kids/moamoa-web/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to a chat session.
// The session lives as long as the connection: closing the socket discards it.
type WSHandler struct {
	hub       *core.Hub
	rateLimit int
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, rateLimit int, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, rateLimit: rateLimit, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		info, err := h.hub.Open(ctx)
		if err != nil {
			h.log.Error().Err(err).Msg("open chat session for ws")
			stdhttp.Error(w, "unavailable", stdhttp.StatusServiceUnavailable)
			return
		}
		sessionID = info.ID
	}

	sub := core.NewSubscriber(uuid.NewString(), sessionID)
	if err := h.hub.Subscribe(ctx, sub); err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			stdhttp.Error(w, "session not found", stdhttp.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("subscribe ws")
		stdhttp.Error(w, "unavailable", stdhttp.StatusServiceUnavailable)
		return
	}
	defer func() {
		if err := h.hub.Close(context.Background(), sessionID); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
			h.log.Warn().Err(err).Str("session_id", sessionID).Msg("close chat session")
		}
	}()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := newRateLimiter(h.rateLimit)
	limiter.startReset(ctx.Done())

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sub, limiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sub)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("session_id", sessionID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sub *core.Subscriber, limiter *rateLimiter) error {
	for {
		var msg proto.Inbound
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		in, protoErr, err := decodeInbound(msg)
		if err != nil {
			h.log.Warn().Err(err).Str("session_id", sub.SessionID).Msg("failed to decode inbound")
			protoErr = &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed message"}
		}
		if protoErr != nil {
			if writeErr := h.writeError(ctx, conn, protoErr); writeErr != nil {
				return writeErr
			}
			continue
		}

		if in.reply == nil {
			continue
		}
		if !limiter.allow() {
			if writeErr := h.writeError(ctx, conn, &proto.Error{Code: core.ErrCodeRateLimited, Msg: "too many replies"}); writeErr != nil {
				return writeErr
			}
			continue
		}
		res, err := h.hub.Submit(ctx, sub.SessionID, in.reply.Text)
		if err != nil {
			if writeErr := h.writeError(ctx, conn, protoError(err)); writeErr != nil {
				return writeErr
			}
			continue
		}
		if !res.Accepted {
			h.log.Debug().Str("session_id", sub.SessionID).Msg("quick reply ignored")
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *core.Subscriber) error {
	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("session_id", sub.SessionID).Msg("write ws event")
				return err
			}
			if event.Kind == core.EventClosed {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeError(ctx context.Context, conn *websocket.Conn, protoErr *proto.Error) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: protoErr,
	})
}
