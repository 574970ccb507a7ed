package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/readcache"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

const (
	resource = "Blog post"

	// MaxLimit caps ?limit on listings.
	MaxLimit = 100

	sharedLoadTimeout = 10 * time.Second
)

// Service owns blog visibility: a nil viewer only ever sees published posts.
type Service struct {
	repo  repository.BlogPostRepository
	cache *readcache.Cache

	// loads collapses concurrent anonymous cache misses for the same key
	// and cache generation.
	loads singleflight.Group
}

// NewService builds the blog service. Only anonymous reads are cached; the
// cache is flushed on every write. A nil cache disables caching.
func NewService(repo repository.BlogPostRepository, c *cache.Cache, m *metrics.Metrics) *Service {
	return &Service{repo: repo, cache: readcache.New("blog", c, m)}
}

func (s *Service) List(ctx context.Context, filters model.BlogPostFilters, viewer *model.Identity) ([]*model.BlogPost, error) {
	if filters.Category != "" && !filters.Category.Valid() {
		return nil, apperrors.Validation("Invalid category", nil)
	}
	if filters.Limit < 0 {
		return nil, apperrors.Validation("Invalid limit", nil)
	}
	if filters.Limit > MaxLimit {
		filters.Limit = MaxLimit
	}

	if viewer == nil {
		filters.Status = model.PostStatusPublished
	} else if filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.Validation("Invalid status", nil)
	}

	if viewer != nil {
		posts, err := s.repo.List(ctx, filters)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		return posts, nil
	}

	key := listKey(filters)
	if posts, ok := s.cache.Get(key); ok {
		return posts.([]*model.BlogPost), nil
	}

	v, err := s.load(ctx, key, func(ctx context.Context) (interface{}, error) {
		posts, err := s.repo.List(ctx, filters)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*model.BlogPost), nil
}

// Get returns a post. Anonymous viewers get not found for anything unpublished.
func (s *Service) Get(ctx context.Context, id uuid.UUID, viewer *model.Identity) (*model.BlogPost, error) {
	if viewer != nil {
		post, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, translate(err)
		}
		return post, nil
	}

	key := "post:" + id.String()
	if post, ok := s.cache.Get(key); ok {
		return post.(*model.BlogPost), nil
	}

	v, err := s.load(ctx, key, func(ctx context.Context) (interface{}, error) {
		post, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, translate(err)
		}
		if post.Status != model.PostStatusPublished {
			return nil, apperrors.NotFound(resource, nil)
		}
		return post, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.BlogPost), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateBlogPostRequest, author *model.Identity) (*model.BlogPost, error) {
	category := req.Category
	if category == "" {
		category = model.PostCategoryPromotion
	}
	if !category.Valid() {
		return nil, apperrors.Validation("Invalid category", nil)
	}

	status := req.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid status", nil)
	}

	post := &model.BlogPost{
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		FeaturedImageURL: req.FeaturedImageURL,
		Category:         category,
		Status:           status,
	}
	if author != nil {
		authorID := author.ID
		post.AuthorID = &authorID
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Invalidate()

	log.Info().Str("post_id", post.ID.String()).Str("status", string(post.Status)).Msg("blog post created")
	return post, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateBlogPostRequest) (*model.BlogPost, error) {
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, apperrors.Validation("Invalid category", nil)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.Validation("Invalid status", nil)
	}

	post, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, translate(err)
	}
	s.cache.Invalidate()
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, apperrors.Internal(err)
	}
	if ok {
		s.cache.Invalidate()
	}
	return ok, nil
}

func listKey(f model.BlogPostFilters) string {
	return fmt.Sprintf("list:%s:%s:%s:%d", f.Status, f.Category, f.Exclude, f.Limit)
}

// load runs fn once for all concurrent anonymous readers of key and caches
// the result unless a write landed meanwhile. fn does not inherit the
// caller's cancellation, since other readers may be waiting on it.
func (s *Service) load(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	gen := s.cache.Generation()
	v, err, _ := s.loads.Do(fmt.Sprintf("%s@%d", key, gen), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		v, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v, gen)
		return v, nil
	})
	return v, err
}

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}
