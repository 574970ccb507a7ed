package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/handler"
	"github.com/jwalitptl/dentalcare-api/internal/model"
)

const resource = "Appointment"

type Service interface {
	List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", handler.Chain(g.RateLimit, h.Create)...)
		appointments.GET("", g.Admin(h.List)...)
		appointments.GET("/:id", g.Admin(h.Get)...)
		appointments.PUT("/:id", g.Admin(h.Update)...)
		appointments.DELETE("/:id", g.Admin(h.Delete)...)
	}
}

func (h *Handler) List(c *gin.Context) {
	filters := model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}

	appointments, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "appointment")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	appointment, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// Create is the public booking endpoint.
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	appointment, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "appointment")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.UpdateAppointmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	appointment, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "appointment")
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
