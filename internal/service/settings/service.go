package settings

import (
	"context"
	"errors"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/readcache"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

const cacheKey = "site_settings"

type Service struct {
	repo  repository.SiteSettingsRepository
	cache *readcache.Cache
}

// NewService builds the settings service. A nil cache disables caching.
func NewService(repo repository.SiteSettingsRepository, c *cache.Cache, m *metrics.Metrics) *Service {
	return &Service{repo: repo, cache: readcache.New("site_settings", c, m)}
}

func (s *Service) Get(ctx context.Context) (*model.SiteSettings, error) {
	if v, ok := s.cache.Get(cacheKey); ok {
		settings := *v.(*model.SiteSettings)
		return &settings, nil
	}

	gen := s.cache.Generation()
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Site settings", err)
		}
		return nil, apperrors.Internal(err)
	}

	cached := *settings
	s.cache.Set(cacheKey, &cached, gen)
	return settings, nil
}

// Update patches the settings row, creating it from defaults if it is missing.
func (s *Service) Update(ctx context.Context, patch *model.UpdateSiteSettingsRequest) (*model.SiteSettings, error) {
	settings, err := s.repo.Upsert(ctx, patch)
	s.cache.Invalidate()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return settings, nil
}
