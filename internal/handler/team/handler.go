package team

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/handler"
	"github.com/jwalitptl/dentalcare-api/internal/model"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

const resource = "Team member"

type Service interface {
	List(ctx context.Context) ([]*model.TeamMember, error)
	Get(ctx context.Context, id uuid.UUID) (*model.TeamMember, error)
	Create(ctx context.Context, req *model.CreateTeamMemberRequest) (*model.TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, patch *model.UpdateTeamMemberRequest) (*model.TeamMember, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	team := r.Group("/team-members")
	{
		team.GET("", h.List)
		team.GET("/:id", h.Get)
		team.POST("", g.Admin(h.Create)...)
		team.PUT("/:id", g.Admin(h.Update)...)
		team.DELETE("/:id", g.Admin(h.Delete)...)
	}
}

func (h *Handler) List(c *gin.Context) {
	members, err := h.svc.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondError(c, apperrors.NotFound(resource, err))
		return
	}

	member, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateTeamMemberRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	member, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "team member")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.UpdateTeamMemberRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	member, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "team member")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	ok, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Deleted(c, ok, resource)
}
