package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/hoops-league-service/internal/broadcast"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	sendBufferSize = 64
)

// Live message types.
const (
	MessageHello = "hello"
	MessageScore = "score"
)

// LiveMessage is one frame sent to a live viewer.
type LiveMessage struct {
	Type     string                 `json:"type"`
	ClientID string                 `json:"clientId,omitempty"`
	GameID   string                 `json:"gameId"`
	Update   *broadcast.ScoreUpdate `json:"update,omitempty"`
	At       time.Time              `json:"at"`
}

// LiveHandler streams a game's score updates to websocket viewers.
type LiveHandler struct {
	channel  broadcast.Channel
	upgrader websocket.Upgrader
	logger   *slog.Logger
	now      func() time.Time
}

// NewLiveHandler builds a LiveHandler. Origins follow the CORS allow list; an
// empty list or "*" accepts any origin.
func NewLiveHandler(channel broadcast.Channel, allowedOrigins []string, logger *slog.Logger) *LiveHandler {
	return &LiveHandler{
		channel: channel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Stream upgrades the request and relays updates until the viewer leaves.
func (h *LiveHandler) Stream(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	gameID, ok := pathID(r, gameIDParam)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", logger)
		return
	}
	if h.channel == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "live updates not configured", logger)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(logger, "live upgrade failed", logging.FieldGameID, gameID, "err", err)
		return
	}

	client := newLiveClient(uuid.NewString(), conn, logger)
	defer client.close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := h.channel.Subscribe(ctx, gameID, func(update broadcast.ScoreUpdate) {
		u := update
		if !client.trySend(LiveMessage{Type: MessageScore, GameID: gameID, Update: &u, At: h.now().UTC()}) {
			logging.Warn(logger, "live viewer too slow, update dropped",
				logging.FieldGameID, gameID,
				logging.FieldClientID, client.id,
			)
		}
	})
	if err != nil {
		logging.Error(logger, "live subscribe failed", err, logging.FieldGameID, gameID)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(writeWait))
		return
	}
	defer sub.Close()

	client.trySend(LiveMessage{Type: MessageHello, ClientID: client.id, GameID: gameID, At: h.now().UTC()})
	logging.Debug(logger, "live viewer connected", logging.FieldGameID, gameID, logging.FieldClientID, client.id)

	go client.writePump(ctx)
	client.readPump()
	logging.Debug(logger, "live viewer disconnected", logging.FieldGameID, gameID, logging.FieldClientID, client.id)
}

// liveClient owns one websocket connection. Only writePump writes to conn.
type liveClient struct {
	id     string
	conn   *websocket.Conn
	send   chan LiveMessage
	logger *slog.Logger
	once   sync.Once
}

func newLiveClient(id string, conn *websocket.Conn, logger *slog.Logger) *liveClient {
	return &liveClient{
		id:     id,
		conn:   conn,
		send:   make(chan LiveMessage, sendBufferSize),
		logger: logger,
	}
}

// trySend queues msg without blocking; false means the buffer is full.
func (c *liveClient) trySend(msg LiveMessage) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// readPump discards viewer messages and keeps the read deadline fresh on pong.
func (c *liveClient) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn(c.logger, "live viewer closed unexpectedly", logging.FieldClientID, c.id, "err", err)
			}
			return
		}
	}
}

func (c *liveClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				logging.Warn(c.logger, "live write failed", logging.FieldClientID, c.id, "err", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *liveClient) close() {
	c.once.Do(func() { _ = c.conn.Close() })
}

func originChecker(allowed []string) func(*nethttp.Request) bool {
	open := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			open = true
		}
		set[strings.ToLower(origin)] = struct{}{}
	}
	return func(r *nethttp.Request) bool {
		if open {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}
