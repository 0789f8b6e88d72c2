package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/davideparisimodena/careconnect/internal/middleware"
	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/service/identity"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/httputil"
)

type Handler struct {
	identitySvc *identity.Service
}

func NewHandler(identitySvc *identity.Service) *Handler {
	return &Handler{identitySvc: identitySvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profileGroup := r.Group("/profile")
	{
		profileGroup.GET("", h.GetProfile)
		profileGroup.PUT("", h.UpdateProfile)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.identitySvc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	if err := h.identitySvc.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"updated": true})
}
