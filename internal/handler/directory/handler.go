package directory

import (
	"github.com/gin-gonic/gin"

	"github.com/davideparisimodena/careconnect/internal/service/directory"
	"github.com/davideparisimodena/careconnect/internal/service/taxonomy"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/httputil"
)

type Handler struct {
	directorySvc *directory.Service
	taxonomySvc  *taxonomy.Service
}

func NewHandler(directorySvc *directory.Service, taxonomySvc *taxonomy.Service) *Handler {
	return &Handler{
		directorySvc: directorySvc,
		taxonomySvc:  taxonomySvc,
	}
}

// RegisterPublicRoutes mounts the unauthenticated marketplace endpoints.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/professionals", h.ListProfessionals)
	r.GET("/categories", h.ListCategories)
}

// RegisterRoutes mounts the authenticated matching endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/match", h.Match)
}

func (h *Handler) ListProfessionals(c *gin.Context) {
	pros, err := h.directorySvc.LandingProfessionals(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, pros)
}

func (h *Handler) ListCategories(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{
		"categories":           h.taxonomySvc.Categories(),
		"suggestion_available": h.taxonomySvc.SuggestionAvailable(),
	})
}

type matchRequest struct {
	Description string `json:"description" binding:"required"`
	City        string `json:"city" binding:"required"`
}

// Match suggests the category for a free-text need and lists the
// qualified professionals in the city.
func (h *Handler) Match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	category, err := h.taxonomySvc.SuggestCategory(c.Request.Context(), req.Description)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	pros, err := h.directorySvc.MatchingProfessionals(c.Request.Context(), req.City, category)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"category":      category,
		"professionals": pros,
	})
}
