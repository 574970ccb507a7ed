package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/handler"
	"github.com/jwalitptl/dentalcare-api/internal/middleware"
	"github.com/jwalitptl/dentalcare-api/internal/model"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

type Service interface {
	SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AdminUser, error)
	SignIn(ctx context.Context, req *model.SignInRequest) (*model.SignInResponse, error)
	Me(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	auth := r.Group("/auth")
	{
		auth.POST("/signin", handler.Chain(g.RateLimit, h.SignIn)...)
		auth.POST("/signup", handler.Chain(g.RateLimit, h.SignUp)...)
		auth.GET("/me", g.Admin(h.Me)...)
	}
}

// Presence is checked by the service so a missing field reads
// "Email and password are required" rather than a per-field message.
func (h *Handler) SignIn(c *gin.Context) {
	var req model.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil && !handler.MissingFieldsOnly(err) {
		handler.RespondError(c, handler.BindError(err))
		return
	}

	resp, err := h.svc.SignIn(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil && !handler.MissingFieldsOnly(err) {
		handler.RespondError(c, handler.BindError(err))
		return
	}

	user, err := h.svc.SignUp(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserResponse{User: user})
}

func (h *Handler) Me(c *gin.Context) {
	identity := middleware.IdentityFromContext(c.Request.Context())
	if identity == nil {
		handler.RespondError(c, apperrors.Unauthorized("No token provided", nil))
		return
	}

	user, err := h.svc.Me(c.Request.Context(), identity.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserResponse{User: user})
}
