package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"anon-board/internal/domain"
	"anon-board/internal/metrics"
	"anon-board/internal/service"
)

// MessageHandler mantiene dependencias para los endpoints de mensajes.
type MessageHandler struct {
	logger   *zap.Logger
	messages *service.MessageService
}

// NewMessageHandler crea una instancia de MessageHandler.
func NewMessageHandler(logger *zap.Logger, messages *service.MessageService) *MessageHandler {
	return &MessageHandler{
		logger:   logger,
		messages: messages,
	}
}

// ListMessages maneja GET /api/messages.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not load messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// CreateMessage maneja POST /api/messages.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	if c.ContentType() != gin.MIMEJSON {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "request body must be JSON"})
		return
	}

	var req struct {
		Message *string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil {
		h.logger.Warn("invalid create message request", zap.Error(err))
		metrics.MessagesRejected.WithLabelValues("not_text").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": domain.ErrMessageNotText.Error()})
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), *req.Message, c.ClientIP())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.logger.Error("create message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not save message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": msg.ID})
}
