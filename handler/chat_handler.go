package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tieubaoca/ayuroot-be/middleware"
	"github.com/tieubaoca/ayuroot-be/observability"
	"github.com/tieubaoca/ayuroot-be/relay"
	"github.com/tieubaoca/ayuroot-be/service"
	"github.com/tieubaoca/ayuroot-be/types"
)

const (
	endpointChat   = "chat"
	endpointStream = "stream"

	historySaveTimeout = 5 * time.Second
)

type ChatHandler interface {
	HandleChat(c *gin.Context)
	HandleChatStream(c *gin.Context)
	HandleChatHistory(c *gin.Context)
	HandleChatWebsocket(c *gin.Context)
}

type chatHandler struct {
	chatService service.ChatService
	wsService   *service.WebSocketService
	encoder     *relay.Encoder
	metrics     *observability.Metrics
	frontendURL string
}

func NewChatHandler(
	chatService service.ChatService,
	wsService *service.WebSocketService,
	encoder *relay.Encoder,
	metrics *observability.Metrics,
	frontendURL string,
) ChatHandler {
	return &chatHandler{
		chatService: chatService,
		wsService:   wsService,
		encoder:     encoder,
		metrics:     metrics,
		frontendURL: frontendURL,
	}
}

func (h *chatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := bindJSON(c, &req); err != nil {
		h.metrics.ObserveRequest(endpointChat, "invalid")
		c.JSON(http.StatusBadRequest, types.ChatResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	response, err := h.chatService.Reply(c.Request.Context(), req.Message)
	if errors.Is(err, service.ErrEmptyMessage) {
		h.metrics.ObserveRequest(endpointChat, "invalid")
		c.JSON(http.StatusBadRequest, types.ChatResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg("Chat Error")
		h.metrics.ObserveRequest(endpointChat, "upstream_error")
		h.metrics.UpstreamError(endpointChat)
		c.JSON(http.StatusInternalServerError, types.ChatResponse{
			Success: false,
			Message: service.ErrorMessage(err),
		})
		return
	}

	h.metrics.ObserveRequest(endpointChat, "ok")
	h.recordExchange(c, req.Message, response)
	c.JSON(http.StatusOK, types.ChatResponse{
		Success:  true,
		Response: response,
	})
}

func (h *chatHandler) HandleChatStream(c *gin.Context) {
	start := time.Now()
	defer h.metrics.StreamStarted(endpointStream)()

	SetSSEHeaders(c.Writer, h.frontendURL)
	c.Status(http.StatusOK)
	sse, err := NewSSEWriter(c.Writer)
	if err != nil {
		log.Error().Err(err).Msg("Streaming unsupported")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	status := h.stream(c, sse)
	h.metrics.ObserveRequest(endpointStream, status)
	h.metrics.ObserveStream(endpointStream, status, time.Since(start))
}

// stream runs one exchange on sse and reports its outcome.
func (h *chatHandler) stream(c *gin.Context, sse *SSEWriter) string {
	ctx := c.Request.Context()

	var req types.ChatRequest
	if err := bindJSON(c, &req); err != nil {
		sse.WriteError(err.Error())
		return "invalid"
	}

	text, err := h.chatService.StreamReply(ctx, req.Message)
	if errors.Is(err, service.ErrEmptyMessage) {
		sse.WriteError(err.Error())
		return "invalid"
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg("Stream Chat Error")
		h.metrics.UpstreamError(endpointStream)
		sse.WriteError(service.ErrorMessage(err))
		return "upstream_error"
	}

	err = h.encoder.Relay(ctx, text, func(chunk string) error {
		if err := sse.WriteChunk(chunk); err != nil {
			return err
		}
		h.metrics.AddChunk(endpointStream)
		return nil
	})
	if err == nil {
		err = sse.WriteDone()
	}
	if err != nil {
		log.Debug().Err(err).Str("request_id", middleware.RequestID(c)).Msg("Client left before stream end")
		h.metrics.ClientDisconnected(endpointStream)
		return "disconnected"
	}

	h.recordExchange(c, req.Message, text)
	return "ok"
}

// recordExchange stores the exchange for a signed in user. Failures are only
// logged.
func (h *chatHandler) recordExchange(c *gin.Context, message, response string) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), historySaveTimeout)
	defer cancel()
	if err := h.chatService.SaveExchange(ctx, claims.ID, message, response); err != nil {
		log.Warn().Err(err).Str("user_id", claims.ID).Msg("Failed to record chat history")
	}
}

func (h *chatHandler) HandleChatHistory(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Success: false,
			Message: "Authorization token is required",
		})
		return
	}

	limit := service.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Success: false,
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	chats, err := h.chatService.History(c.Request.Context(), claims.ID, limit)
	if errors.Is(err, service.ErrHistoryUnavailable) {
		c.JSON(http.StatusServiceUnavailable, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.ID).Msg("Failed to load chat history")
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	items := make([]types.ChatHistoryItem, 0, len(chats))
	for _, chat := range chats {
		items = append(items, types.ChatHistoryItem{
			ID:        chat.ID,
			Message:   chat.Message,
			Response:  chat.Response,
			CreatedAt: chat.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, types.ChatHistoryResponse{
		Success: true,
		Chats:   items,
	})
}

func (h *chatHandler) HandleChatWebsocket(c *gin.Context) {
	userID := ""
	if claims, ok := middleware.CurrentUser(c); ok {
		userID = claims.ID
	}
	h.wsService.HandleChat(c.Writer, c.Request, userID, c.ClientIP())
}
