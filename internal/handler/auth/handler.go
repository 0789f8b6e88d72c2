package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/service/identity"
	"github.com/davideparisimodena/careconnect/pkg/auth"
	"github.com/davideparisimodena/careconnect/pkg/httputil"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
)

type Handler struct {
	identitySvc *identity.Service
	jwtSvc      auth.JWTService
}

func NewHandler(identitySvc *identity.Service, jwtSvc auth.JWTService) *Handler {
	return &Handler{
		identitySvc: identitySvc,
		jwtSvc:      jwtSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	user, err := h.identitySvc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	user, err := h.identitySvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to generate tokens"})
		return
	}

	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	claims, err := h.jwtSvc.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Authentication())
		return
	}

	user, err := h.identitySvc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Authentication())
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to generate tokens"})
		return
	}

	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := h.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := h.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
