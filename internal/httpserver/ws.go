// internal/httpserver/ws.go
//
// WebSocket channel for a session: GET /ws?token=...
// Outbound: every session event (attempt_started, tick, word_found,
// attempt_ended) as its own JSON frame, plus direct replies.
// Inbound frames:
//   {"type":"pointer","payload":{"type":"down|move|up","row":0,"col":0}}
//   {"type":"hint"} {"type":"snapshot"} {"type":"ping"}
//   {"type":"dictionary_open"} {"type":"dictionary_close"}
// Replies use {"type":"play|pointer|hint|snapshot|error|pong","payload":...}.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/levels"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBufferSize = 64
)

type clientMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type serverMsg struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if !s.cfg.IsProduction() {
				return true
			}
			o := r.Header.Get("Origin")
			return o == "" || o == s.cfg.Server.ClientOrigin
		},
	}
}

// handleWS upgrades the request and runs the client until it disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolve(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session")
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	logger := hlog.FromRequest(r).With().Str("session", sess.ID).Logger()
	logger.Info().Msg("websocket connected")

	c := newWSClient(conn, sess, logger)
	c.run()
	logger.Info().Msg("websocket disconnected")
}

// wsClient pumps one connection. Only writePump writes to conn.
type wsClient struct {
	conn   *websocket.Conn
	sess   *game.Session
	send   chan []byte
	done   chan struct{}
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
}

func newWSClient(conn *websocket.Conn, sess *game.Session, logger zerolog.Logger) *wsClient {
	return &wsClient{
		conn:   conn,
		sess:   sess,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (c *wsClient) run() {
	events, unsubscribe := c.sess.Subscribe()
	defer unsubscribe()

	go c.writePump()
	go c.forward(events)
	c.readPump()
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	c.conn.Close()
}

// push queues v for the writer, dropping it when the buffer is full.
func (c *wsClient) push(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error().Err(err).Msg("marshal websocket message")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn().Msg("send buffer full, message dropped")
	}
}

func (c *wsClient) reply(t string, payload any) {
	c.push(serverMsg{Type: t, Payload: payload})
}

func (c *wsClient) fail(code, msg string) {
	c.reply("error", errorPayload{Code: code, Message: msg})
}

// forward relays session events until the subscription or the client ends.
func (c *wsClient) forward(events <-chan game.Event) {
	for {
		select {
		case <-c.done:
			return
		case ev, ok := <-events:
			if !ok {
				c.close()
				return
			}
			c.push(ev)
		}
	}
}

func (c *wsClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
		c.handle(data)
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) handle(data []byte) {
	var msg clientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.fail("invalid_message", "Invalid message format")
		return
	}

	switch msg.Type {
	case "pointer":
		var p pointerReq
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.fail("invalid_message", "Invalid pointer payload")
			return
		}
		res, err := applyPointer(c.sess, p)
		if err != nil {
			c.gameError(err)
			return
		}
		if res.Play != nil {
			c.reply("play", res.Play)
			return
		}
		c.reply("pointer", res)
	case "hint":
		h, err := c.sess.Hint()
		if err != nil {
			c.gameError(err)
			return
		}
		c.reply("hint", h)
	case "dictionary_open", "dictionary_close":
		var err error
		if msg.Type == "dictionary_open" {
			err = c.sess.OpenDictionary()
		} else {
			err = c.sess.CloseDictionary()
		}
		if err != nil {
			c.gameError(err)
			return
		}
		c.snapshot()
	case "snapshot":
		c.snapshot()
	case "ping":
		c.reply("pong", nil)
	default:
		c.fail("invalid_message", "Unknown message type")
	}
}

func (c *wsClient) snapshot() {
	snap, err := c.sess.Snapshot()
	if err != nil {
		c.gameError(err)
		return
	}
	c.reply("snapshot", snap)
}

func (c *wsClient) gameError(err error) {
	switch {
	case errors.Is(err, errBadPointer):
		c.fail("bad_pointer", err.Error())
	case errors.Is(err, game.ErrNoAttempt):
		c.fail("no_attempt", "No attempt in progress")
	case errors.Is(err, game.ErrAttemptEnded):
		c.fail("attempt_ended", "The attempt has ended")
	case errors.Is(err, game.ErrNoHints):
		c.fail("no_hints", "No hints left")
	case errors.Is(err, game.ErrNothingToHint):
		c.fail("nothing_to_hint", "Every word is already found")
	case errors.Is(err, levels.ErrUnknownLevel):
		c.fail("unknown_level", err.Error())
	case errors.Is(err, game.ErrSessionClosed):
		c.fail("session_closed", "Session has expired")
	default:
		c.logger.Error().Err(err).Msg("websocket game error")
		c.fail("server_error", "Internal error")
	}
}
