package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"vn.io.arda/realtime/internal/application"
	"vn.io.arda/realtime/internal/domain"
)

// Handler holds all HTTP handler methods.
type Handler struct {
	dispatcher   *application.Dispatcher
	poll         *application.PollService
	presence     *application.PresenceTracker
	hub          *Hub
	maxEmitBytes int64
}

// NewHandler creates a new Handler.
func NewHandler(dispatcher *application.Dispatcher, poll *application.PollService, presence *application.PresenceTracker, hub *Hub, maxEmitBytes int64) *Handler {
	return &Handler{
		dispatcher:   dispatcher,
		poll:         poll,
		presence:     presence,
		hub:          hub,
		maxEmitBytes: maxEmitBytes,
	}
}

// --- Polling fallback ---

// Poll GET /poll?roomId=&lastMessageId=
func (h *Handler) Poll(c echo.Context) error {
	roomID := c.QueryParam("roomId")
	lastMessageID := c.QueryParam("lastMessageId")

	messages, err := h.poll.Poll(c.Request().Context(), roomID, lastMessageID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
				"error": "invalid-argument", "message": "roomId is required",
			})
		}
		log.Error().Err(err).Str("room", roomID).Msg("poll failed")
		return echo.NewHTTPError(http.StatusServiceUnavailable, map[string]string{
			"error": "upstream-unavailable",
		})
	}

	if messages == nil {
		messages = []*domain.ChatMessage{}
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": messages})
}

// --- Presence ---

// Online GET /online — advisory, never hard-fails.
func (h *Handler) Online(c echo.Context) error {
	res := h.presence.OnlineUsers(c.Request().Context())

	ids := make([]string, 0, len(res.Users))
	for _, u := range res.Users {
		ids = append(ids, u.UserID)
	}

	body := map[string]any{
		"onlineUserIds": ids,
		"totalOnline":   len(ids),
		"users":         res.Users,
	}
	if !res.Enabled {
		body["enabled"] = false
	}
	if res.Degraded {
		body["degraded"] = true
	}
	return c.JSON(http.StatusOK, body)
}

// --- Emit ---

type emitNotice struct {
	UserID  string         `json:"userId"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}

type emitRefresh struct {
	UserID string `json:"userId"`
	Count  *int64 `json:"count"`
}

// emitRequest accepts the single shape (top-level fields) or the bulk shape
// (the two lists).
type emitRequest struct {
	emitNotice
	Notifications []emitNotice  `json:"notifications"`
	UnreadCounts  []emitRefresh `json:"unreadCounts"`
}

// Emit POST /emit — triggers the dispatcher. Oversized bodies are rejected
// before parsing.
func (h *Handler) Emit(c echo.Context) error {
	req := c.Request()
	if req.ContentLength > h.maxEmitBytes {
		return payloadTooLarge(c)
	}

	var in emitRequest
	dec := json.NewDecoder(http.MaxBytesReader(c.Response(), req.Body, h.maxEmitBytes))
	if err := dec.Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return payloadTooLarge(c)
		}
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
			"error": "invalid-argument", "message": "malformed emit body",
		})
	}

	ctx := c.Request().Context()

	// Bulk shape.
	if len(in.Notifications) > 0 || len(in.UnreadCounts) > 0 {
		notices := make([]domain.Notice, 0, len(in.Notifications))
		for _, n := range in.Notifications {
			notice, err := toNotice(n)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
					"error": "invalid-argument", "message": err.Error(),
				})
			}
			notices = append(notices, notice)
		}
		refreshes := make([]domain.UnreadRefresh, 0, len(in.UnreadCounts))
		for _, r := range in.UnreadCounts {
			if r.UserID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
					"error": "invalid-argument", "message": "unreadCounts entry missing userId",
				})
			}
			refreshes = append(refreshes, domain.UnreadRefresh{UserID: r.UserID, Count: r.Count})
		}

		h.dispatcher.DispatchBulk(ctx, notices, refreshes)
		return c.JSON(http.StatusAccepted, map[string]int{
			"notifications": len(notices), "unreadCounts": len(refreshes),
		})
	}

	// Single shape.
	notice, err := toNotice(in.emitNotice)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
			"error": "invalid-argument", "message": err.Error(),
		})
	}
	h.dispatcher.DispatchSingle(ctx, notice.UserID, notice.Kind, notice.Payload)
	return c.JSON(http.StatusAccepted, map[string]int{"notifications": 1})
}

func toNotice(n emitNotice) (domain.Notice, error) {
	if n.UserID == "" {
		return domain.Notice{}, fmt.Errorf("userId is required")
	}
	kind := domain.EventKind(n.Kind)
	if !domain.ValidEmitKind(kind) {
		return domain.Notice{}, fmt.Errorf("unknown event kind %q", n.Kind)
	}
	return domain.Notice{UserID: n.UserID, Kind: kind, Payload: n.Payload}, nil
}

func payloadTooLarge(c echo.Context) error {
	return echo.NewHTTPError(http.StatusRequestEntityTooLarge, map[string]string{
		"error": "payload-too-large",
	})
}

// --- SSE push channel ---

// Stream GET /stream — the persistent push channel. Registration happens
// here; the handle is gone from the registry the moment this handler
// returns, so a restart rebuilds from zero.
func (h *Handler) Stream(c echo.Context) error {
	userID := mustUser(c)
	handle := uuid.NewString()

	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable proxy buffering

	sendCh := h.hub.Attach(handle, userID)
	defer h.hub.Detach(handle)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"ok\"}\n\n")
	w.Flush()

	log.Info().Str("user", userID).Str("handle", handle).Msg("push channel opened")

	ctx := c.Request().Context()
	for {
		select {
		case msg, ok := <-sendCh:
			if !ok {
				return nil
			}
			if _, err := w.Write(msg); err != nil {
				return nil
			}
			w.Flush()

		case <-ctx.Done():
			log.Info().Str("user", userID).Str("handle", handle).Msg("push channel closed by client")
			return nil
		}
	}
}

// --- Healthcheck ---

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "ok",
		"push_clients": h.hub.ConnectedCount(),
	})
}

// --- Helpers ---

func mustUser(c echo.Context) string {
	userID, _ := c.Get("userID").(string)
	return userID
}
