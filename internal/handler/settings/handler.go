package settings

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/handler"
	"github.com/jwalitptl/dentalcare-api/internal/model"
)

type Service interface {
	Get(ctx context.Context) (*model.SiteSettings, error)
	Update(ctx context.Context, patch *model.UpdateSiteSettingsRequest) (*model.SiteSettings, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	settings := r.Group("/site-settings")
	{
		settings.GET("", h.Get)
		settings.PUT("", g.Admin(h.Update)...)
	}
}

func (h *Handler) Get(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateSiteSettingsRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
