package blog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/handler"
	"github.com/jwalitptl/dentalcare-api/internal/middleware"
	"github.com/jwalitptl/dentalcare-api/internal/model"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

const resource = "Blog post"

type Service interface {
	List(ctx context.Context, filters model.BlogPostFilters, viewer *model.Identity) ([]*model.BlogPost, error)
	Get(ctx context.Context, id uuid.UUID, viewer *model.Identity) (*model.BlogPost, error)
	Create(ctx context.Context, req *model.CreateBlogPostRequest, author *model.Identity) (*model.BlogPost, error)
	Update(ctx context.Context, id uuid.UUID, patch *model.UpdateBlogPostRequest) (*model.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	posts := r.Group("/blog-posts")
	{
		posts.GET("", handler.Chain(g.Identify, h.List)...)
		posts.GET("/:id", handler.Chain(g.Identify, h.Get)...)
		posts.POST("", g.Admin(h.Create)...)
		posts.PUT("/:id", g.Admin(h.Update)...)
		posts.DELETE("/:id", g.Admin(h.Delete)...)
	}
}

// List serves published posts to anonymous callers and everything to admins.
// Supports ?status (admins only), ?category, ?exclude and ?limit.
func (h *Handler) List(c *gin.Context) {
	filters := model.BlogPostFilters{
		Status:   model.PostStatus(c.Query("status")),
		Category: model.PostCategory(c.Query("category")),
	}

	if raw := c.Query("exclude"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.RespondError(c, apperrors.Validation("invalid exclude ID", err))
			return
		}
		filters.Exclude = id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			handler.RespondError(c, apperrors.Validation("Invalid limit", err))
			return
		}
		filters.Limit = limit
	}

	viewer := middleware.IdentityFromContext(c.Request.Context())
	posts, err := h.svc.List(c.Request.Context(), filters, viewer)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondError(c, apperrors.NotFound(resource, err))
		return
	}

	viewer := middleware.IdentityFromContext(c.Request.Context())
	post, err := h.svc.Get(c.Request.Context(), id, viewer)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBlogPostRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	author := middleware.IdentityFromContext(c.Request.Context())
	post, err := h.svc.Create(c.Request.Context(), &req, author)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "blog post")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.UpdateBlogPostRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	post, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "blog post")
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
