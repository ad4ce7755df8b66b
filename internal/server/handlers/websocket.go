// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"trendlab/internal/domain/identity"
	"trendlab/internal/service/collecting"
)

// EventSubscriber delivers bus messages until the returned function is called
type EventSubscriber interface {
	Subscribe(subject string, handle func(data []byte)) (func() error, error)
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Outgoing messages buffered per client before new ones are dropped
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4 * 1024,
		SendBuffer:     64,
	}
}

// streamMessage is one frame sent to a collection stream client
type streamMessage struct {
	Type    string          `json:"type"`
	Subject string          `json:"subject,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Time    time.Time       `json:"time"`
}

// CollectionStreamHandler streams the caller's collection events over a WebSocket
type CollectionStreamHandler struct {
	subscriber EventSubscriber
	topic      string
	config     WebSocketConfig
	upgrader   websocket.Upgrader
}

// NewCollectionStreamHandler creates a stream handler. An allowed origin of
// "*" accepts any origin.
func NewCollectionStreamHandler(subscriber EventSubscriber, topic string, allowedOrigins []string, config WebSocketConfig) *CollectionStreamHandler {
	if topic == "" {
		topic = collecting.DefaultTopic
	}

	return &CollectionStreamHandler{
		subscriber: subscriber,
		topic:      topic,
		config:     config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// collectionClient represents a connected WebSocket client
type collectionClient struct {
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func() error
	config      WebSocketConfig
	logger      zerolog.Logger
}

// ServeHTTP upgrades the connection and subscribes it to the caller's events
func (h *CollectionStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		respondWithError(w, r, http.StatusUnauthorized, "missing access token", nil)
		return
	}

	logger := hlog.FromRequest(r).With().Str("user_id", user.ID).Logger()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}

	client := &collectionClient{
		conn:   conn,
		send:   make(chan []byte, h.config.SendBuffer),
		done:   make(chan struct{}),
		config: h.config,
		logger: logger,
	}

	subject := collecting.CollectedSubject(h.topic, user.ID)
	unsubscribe, err := h.subscriber.Subscribe(subject, func(data []byte) {
		client.enqueue(frame("trend.collected", subject, data))
	})
	if err != nil {
		logger.Error().Err(err).Str("subject", subject).Msg("Failed to subscribe to collection events")
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"),
			time.Now().Add(h.config.WriteWait),
		)
		_ = conn.Close()
		return
	}
	client.unsubscribe = unsubscribe

	go client.writePump()
	go client.readPump()

	client.enqueue(frame("welcome", subject, nil))
	logger.Debug().Str("subject", subject).Msg("Collection stream opened")
}

func frame(kind, subject string, data []byte) []byte {
	msg, _ := json.Marshal(streamMessage{
		Type:    kind,
		Subject: subject,
		Data:    data,
		Time:    time.Now().UTC(),
	})
	return msg
}

// enqueue hands a message to the write pump, dropping it when the client
// is gone or too slow
func (c *collectionClient) enqueue(msg []byte) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		c.logger.Warn().Msg("Dropping collection event for slow client")
	}
}

// readPump consumes control frames until the peer goes away. The stream is
// server to client only, so data frames are discarded.
func (c *collectionClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket error")
			}
			return
		}
	}
}

// writePump pumps queued events to the WebSocket connection
func (c *collectionClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// close unsubscribes and closes the connection; safe to call more than once
func (c *collectionClient) close() {
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			if err := c.unsubscribe(); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to unsubscribe collection stream")
			}
		}
		close(c.done)
		_ = c.conn.Close()
		c.logger.Debug().Msg("Collection stream closed")
	})
}
