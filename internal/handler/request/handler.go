package request

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davideparisimodena/careconnect/internal/middleware"
	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/service/identity"
	"github.com/davideparisimodena/careconnect/internal/service/ledger"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/httputil"
)

type Handler struct {
	ledgerSvc   *ledger.Service
	identitySvc *identity.Service
}

func NewHandler(ledgerSvc *ledger.Service, identitySvc *identity.Service) *Handler {
	return &Handler{
		ledgerSvc:   ledgerSvc,
		identitySvc: identitySvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	requests := r.Group("/requests")
	{
		requests.POST("", auth.RequireRole(model.RolePatient), h.Submit)
		requests.GET("/history", auth.RequireRole(model.RolePatient), h.History)
		requests.GET("/open", auth.RequireRole(model.RoleProfessional), h.ListOpen)
		requests.GET("/mine", auth.RequireRole(model.RoleProfessional), h.MyClaims)
		requests.POST("/:id/claim", auth.RequireRole(model.RoleProfessional), h.Claim)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	request, err := h.ledgerSvc.Submit(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, request)
}

func (h *Handler) History(c *gin.Context) {
	requests, err := h.ledgerSvc.HistoryFor(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, requests)
}

// ListOpen shows the professional's open pool. City defaults to the
// professional's own; a query parameter may override it.
func (h *Handler) ListOpen(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		user, err := h.identitySvc.Get(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		city = user.City
	}

	requests, err := h.ledgerSvc.ListOpen(c.Request.Context(), city, middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, requests)
}

func (h *Handler) MyClaims(c *gin.Context) {
	requests, err := h.ledgerSvc.ClaimsFor(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, requests)
}

func (h *Handler) Claim(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		httputil.RespondWithError(c, apperrors.Validation("invalid request id"))
		return
	}

	user, err := h.identitySvc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	request, err := h.ledgerSvc.Claim(c.Request.Context(), requestID, user.ID, user.City)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, request)
}
