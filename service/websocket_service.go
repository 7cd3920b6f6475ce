package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/tieubaoca/ayuroot-be/observability"
	"github.com/tieubaoca/ayuroot-be/relay"
	"github.com/tieubaoca/ayuroot-be/types"
)

// ErrTooManyRequests is sent when a socket client exceeds its message budget.
var ErrTooManyRequests = errors.New("Too many requests")

const (
	wsReadLimit   = 64 * 1024
	wsIdleTimeout = 120 * time.Second
	wsEndpoint    = "ws"
)

// RateLimiter admits or rejects one model call for a client key.
type RateLimiter interface {
	Allow(key string) bool
}

// WebSocketService answers chat messages over a socket using the same event
// sequence as the SSE endpoint, one JSON event per frame.
type WebSocketService struct {
	chat     ChatService
	encoder  *relay.Encoder
	metrics  *observability.Metrics
	limiter  RateLimiter
	upgrader websocket.Upgrader
}

func NewWebSocketService(chat ChatService, encoder *relay.Encoder, metrics *observability.Metrics, allowedOrigins []string) *WebSocketService {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketService{
		chat:    chat,
		encoder: encoder,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// SetRateLimiter makes every chat message count against clientIP's budget.
func (s *WebSocketService) SetRateLimiter(l RateLimiter) {
	s.limiter = l
}

// HandleChat serves one socket until the client goes away. userID is empty
// for anonymous sessions.
func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request, userID, clientIP string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
	})

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			if conn.WriteJSON(types.ErrorEvent("Invalid request body")) != nil {
				return
			}
			continue
		}

		if req.Type == types.TypeWebsocketPing {
			if conn.WriteJSON(types.WebsocketPong{Type: types.TypeWebsocketPong}) != nil {
				return
			}
			continue
		}

		if s.limiter != nil && !s.limiter.Allow(clientIP) {
			s.metrics.ObserveRequest(wsEndpoint, "rate_limited")
			if conn.WriteJSON(types.ErrorEvent(ErrTooManyRequests.Error())) != nil {
				return
			}
			continue
		}

		if err := s.answer(ctx, conn, userID, req.Message); err != nil {
			s.metrics.ClientDisconnected(wsEndpoint)
			log.Debug().Err(err).Msg("WebSocket write failed")
			return
		}
	}
}

// answer writes the full event sequence for one message. Only write errors
// are returned.
func (s *WebSocketService) answer(ctx context.Context, conn *websocket.Conn, userID, message string) error {
	start := time.Now()
	defer s.metrics.StreamStarted(wsEndpoint)()

	text, err := s.chat.StreamReply(ctx, message)
	if err != nil {
		status := "upstream_error"
		if errors.Is(err, ErrEmptyMessage) {
			status = "invalid"
		} else {
			s.metrics.UpstreamError(wsEndpoint)
			log.Error().Err(err).Msg("WebSocket chat failed")
		}
		s.metrics.ObserveRequest(wsEndpoint, status)
		s.metrics.ObserveStream(wsEndpoint, status, time.Since(start))
		return conn.WriteJSON(types.ErrorEvent(ErrorMessage(err)))
	}

	err = s.encoder.Relay(ctx, text, func(chunk string) error {
		if err := conn.WriteJSON(types.ChunkEvent(chunk)); err != nil {
			return err
		}
		s.metrics.AddChunk(wsEndpoint)
		return nil
	})
	if err == nil {
		err = conn.WriteJSON(types.DoneEvent())
	}
	if err != nil {
		s.metrics.ObserveRequest(wsEndpoint, "disconnected")
		s.metrics.ObserveStream(wsEndpoint, "disconnected", time.Since(start))
		return err
	}
	s.metrics.ObserveRequest(wsEndpoint, "ok")
	s.metrics.ObserveStream(wsEndpoint, "ok", time.Since(start))

	if err := s.chat.SaveExchange(ctx, userID, message, text); err != nil {
		log.Warn().Err(err).Msg("Failed to record chat history")
	}
	return nil
}
