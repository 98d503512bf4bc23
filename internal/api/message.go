package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pookiesms/pookiesms/internal/models"
	"go.uber.org/zap"
)

// MessageService covers ingestion and retrieval of anonymous messages.
type MessageService interface {
	Ingest(ctx context.Context, slug, nickname, content string, category models.Category) (*models.Message, error)
	ListMessages(ctx context.Context, username string, before int64, limit int) ([]models.Message, error)
}

type MessageHandler struct {
	svc    MessageService
	logger *zap.Logger
}

func NewMessageHandler(svc MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

type sendMessageRequest struct {
	Nickname string `json:"nickname"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// Send handles POST /v1/links/:slug/messages
//
// Public: the sender is anonymous, identified only by the nickname they
// typed. The category must be one of the fixed set; nickname and content
// are stored verbatim.
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.svc.Ingest(
		c.Request.Context(),
		c.Param("slug"),
		req.Nickname,
		req.Content,
		models.Category(req.Category),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// List handles GET /v1/messages?username=alice&before=123&limit=50
//
// Cursor pagination: "before" is a message ID, 0 meaning "start from the
// newest". "limit" defaults to 50 and is capped at 100.
func (h *MessageHandler) List(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	var before int64
	var err error
	if b := c.Query("before"); b != "" {
		before, err = strconv.ParseInt(b, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'before' parameter"})
			return
		}
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return
		}
		if limit > 100 {
			limit = 100
		}
	}

	messages, err := h.svc.ListMessages(c.Request.Context(), username, before, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
