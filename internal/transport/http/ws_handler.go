package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quote-quiz-service/internal/app"
	"quote-quiz-service/internal/domain"
)

const (
	tickInterval = time.Second
	writeWait    = 10 * time.Second

	codeBadRequest = "bad_request"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
	tick     time.Duration
}

func NewWSHandler(service *app.QuizService, logger *zap.SugaredLogger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		tick: tickInterval,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type timerPayload struct {
	Minutes float64 `json:"minutes"`
}

type searchPayload struct {
	Keyword string `json:"keyword"`
}

type submitPayload struct {
	Author string `json:"author"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and runs one game session over the connection.
// Inbound messages and timer ticks are handled by a single loop so the session
// is never mutated concurrently.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	minted := sessionID == ""
	if minted {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debugw("ws write error", "session", sessionID, "error", err)
				cancel()
				return
			}
		}
	}()

	inbound := make(chan inboundMessage)
	go func() {
		defer close(inbound)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	emit := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	timerActive := false
	push := func(update domain.Update, err error) bool {
		if err != nil {
			h.logger.Errorw("session action failed", "session", sessionID, "error", err)
			return emit(outboundMessage[any]{Type: "notice", Payload: app.NoticeFor(err)})
		}
		for _, n := range update.Notices {
			if !emit(outboundMessage[any]{Type: "notice", Payload: n}) {
				return false
			}
		}
		timerActive = update.View.TimerActive
		return emit(outboundMessage[any]{Type: "view", Payload: update.View})
	}

	h.logger.Infow("session connected", "session", sessionID, "new", minted)
	if minted && !emit(outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: sessionID}}) {
		return
	}

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	ok := push(h.service.Refresh(ctx, sessionID))
	for ok {
		select {
		case msg, open := <-inbound:
			if !open {
				ok = false
				break
			}
			ok = h.handle(ctx, sessionID, msg, emit, push)
		case <-ticker.C:
			if timerActive {
				ok = push(h.service.Refresh(ctx, sessionID))
			}
		case <-ctx.Done():
			ok = false
		}
	}

	close(send)
	<-writerDone
	h.logger.Infow("session disconnected", "session", sessionID)
}

func (h *WSHandler) handle(
	ctx context.Context,
	sessionID string,
	msg inboundMessage,
	emit func(outboundMessage[any]) bool,
	push func(domain.Update, error) bool,
) bool {
	badPayload := func() bool {
		return emit(outboundMessage[any]{Type: "notice", Payload: domain.Notice{
			Level:   domain.LevelError,
			Code:    codeBadRequest,
			Message: "invalid " + msg.Type + " payload",
		}})
	}

	switch msg.Type {
	case "state":
		return push(h.service.Refresh(ctx, sessionID))
	case "start_timer":
		var p timerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return badPayload()
		}
		return push(h.service.StartTimer(ctx, sessionID, p.Minutes))
	case "reset":
		return push(h.service.Reset(ctx, sessionID))
	case "search":
		var p searchPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return badPayload()
		}
		return push(h.service.Search(ctx, sessionID, p.Keyword))
	case "start_round":
		return push(h.service.StartRound(ctx, sessionID))
	case "submit":
		var p submitPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return badPayload()
		}
		return push(h.service.Submit(ctx, sessionID, p.Author))
	case "next":
		return push(h.service.Advance(ctx, sessionID))
	default:
		return emit(outboundMessage[any]{Type: "notice", Payload: domain.Notice{
			Level:   domain.LevelError,
			Code:    codeBadRequest,
			Message: "unsupported message type",
		}})
	}
}
