package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/pulseboard/backend/internal/insights"
	"github.com/pulseboard/backend/internal/metrics"
	"github.com/pulseboard/backend/internal/stream"
	"github.com/pulseboard/backend/pkg/logger"
)

type WebSocketHandler struct {
	feed      *stream.Feed
	responder *insights.Responder
	counter   insights.Counter
}

func NewWebSocketHandler(feed *stream.Feed, responder *insights.Responder, counter insights.Counter) *WebSocketHandler {
	return &WebSocketHandler{
		feed:      feed,
		responder: responder,
		counter:   counter,
	}
}

type socketMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type socketReply struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// HandleConnection pushes every published frame to the client and serves
// refresh and insight messages. Only this goroutine writes to the conn.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	frames, unsubscribe := h.feed.Hub().Subscribe()
	metrics.WebSocketClients.Inc()
	logger.Info("WebSocket connection established", zap.String("remote", c.RemoteAddr().String()))

	done := make(chan struct{})
	incoming := make(chan socketMessage)
	go h.readLoop(c, incoming, done)

	// The conn is pooled once this returns, so the reader must have exited.
	defer func() {
		close(done)
		unsubscribe()
		c.Close()
		for range incoming {
		}
		metrics.WebSocketClients.Dec()
		logger.Info("WebSocket connection closed")
	}()

	if err := c.WriteJSON(socketReply{Type: "frame", Data: h.feed.Frame()}); err != nil {
		logger.Error("Failed to send initial frame", zap.Error(err))
		return
	}

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := c.WriteJSON(socketReply{Type: "frame", Data: frame}); err != nil {
				logger.Error("Failed to send frame", zap.Error(err))
				return
			}
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			if err := h.handleMessage(c, msg); err != nil {
				logger.Error("Failed to answer WebSocket message", zap.Error(err))
				return
			}
		}
	}
}

func (h *WebSocketHandler) readLoop(c *websocket.Conn, incoming chan<- socketMessage, done <-chan struct{}) {
	defer close(incoming)
	for {
		var msg socketMessage
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Failed to read WebSocket message", zap.Error(err))
			}
			return
		}
		select {
		case incoming <- msg:
		case <-done:
			return
		}
	}
}

func (h *WebSocketHandler) handleMessage(c *websocket.Conn, msg socketMessage) error {
	switch msg.Type {
	case "refresh":
		// the refreshed frame arrives through the subscription
		h.feed.Refresh()
		return nil
	case "insight":
		res := h.responder.Answer(msg.Content)
		recordHit(context.Background(), h.counter, res)
		metrics.InsightConfidence.Observe(float64(res.Confidence))
		return c.WriteJSON(socketReply{Type: "insight", Data: newInsightResponse(res)})
	default:
		return c.WriteJSON(socketReply{Type: "error", Error: "Unknown message type"})
	}
}
