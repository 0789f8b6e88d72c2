package chat

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davideparisimodena/careconnect/internal/middleware"
	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/service/conversation"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/httputil"
)

type Handler struct {
	conversationSvc *conversation.Service
}

func NewHandler(conversationSvc *conversation.Service) *Handler {
	return &Handler{conversationSvc: conversationSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chats := r.Group("/chats")
	{
		chats.GET("", h.ListChannels)
		chats.GET("/:request_id/messages", h.History)
		chats.POST("/:request_id/messages", h.Send)
	}
}

func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.conversationSvc.Channels(c.Request.Context(), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, channels)
}

func (h *Handler) History(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("request_id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request id"))
		return
	}

	messages, err := h.conversationSvc.History(c.Request.Context(), requestID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, messages)
}

func (h *Handler) Send(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("request_id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request id"))
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	messages, err := h.conversationSvc.Send(c.Request.Context(), requestID, middleware.UserID(c), req.Content)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, messages)
}
