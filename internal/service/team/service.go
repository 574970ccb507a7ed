package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/readcache"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

const (
	resource = "Team member"
	listKey  = "list"
)

type Service struct {
	repo  repository.TeamMemberRepository
	cache *readcache.Cache
}

// NewService builds the team service. The cache is owned by this service and
// flushed on every write; nil disables caching.
func NewService(repo repository.TeamMemberRepository, c *cache.Cache, m *metrics.Metrics) *Service {
	return &Service{repo: repo, cache: readcache.New("team", c, m)}
}

func (s *Service) List(ctx context.Context) ([]*model.TeamMember, error) {
	if members, ok := s.cache.Get(listKey); ok {
		return members.([]*model.TeamMember), nil
	}

	gen := s.cache.Generation()
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Set(listKey, members, gen)
	return members, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	key := id.String()
	if member, ok := s.cache.Get(key); ok {
		return member.(*model.TeamMember), nil
	}

	gen := s.cache.Generation()
	member, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	s.cache.Set(key, member, gen)
	return member, nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateTeamMemberRequest) (*model.TeamMember, error) {
	if req.ExperienceYears == nil {
		return nil, apperrors.Validation("experienceYears is required", nil)
	}
	if *req.ExperienceYears < 0 {
		return nil, apperrors.Validation("experienceYears must be 0 or greater", nil)
	}

	specialties := req.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	member := &model.TeamMember{
		Name:            req.Name,
		Specialty:       req.Specialty,
		ExperienceYears: *req.ExperienceYears,
		Credentials:     req.Credentials,
		ImageURL:        req.ImageURL,
		Specialties:     specialties,
		DisplayOrder:    req.DisplayOrder,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Invalidate()

	log.Info().Str("team_member_id", member.ID.String()).Msg("team member created")
	return member, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateTeamMemberRequest) (*model.TeamMember, error) {
	if patch.ExperienceYears != nil && *patch.ExperienceYears < 0 {
		return nil, apperrors.Validation("experienceYears must be 0 or greater", nil)
	}

	member, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, translate(err)
	}
	s.cache.Invalidate()
	return member, nil
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

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}
