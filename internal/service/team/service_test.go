package team

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

func intPtr(i int) *int { return &i }

func newMember(name string, order int) *model.CreateTeamMemberRequest {
	return &model.CreateTeamMemberRequest{
		Name:            name,
		Specialty:       "Ortodontia",
		ExperienceYears: intPtr(10),
		Credentials:     "CRO-SP 12345",
		DisplayOrder:    order,
	}
}

func TestCreateDefaultsSpecialties(t *testing.T) {
	svc := NewService(memory.NewStore().TeamMembers(), nil, nil)

	member, err := svc.Create(context.Background(), newMember("Dra. Ana", 0))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, member.ID)
	assert.NotNil(t, member.Specialties)
	assert.Empty(t, member.Specialties)
}

func TestCreateRejectsNegativeExperience(t *testing.T) {
	svc := NewService(memory.NewStore().TeamMembers(), nil, nil)

	req := newMember("Dr. Bruno", 0)
	req.ExperienceYears = intPtr(-1)
	_, err := svc.Create(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().TeamMembers(), nil, nil)

	member, err := svc.Create(ctx, newMember("Dra. Carla", 1))
	require.NoError(t, err)

	name := "Dra. Carla Souza"
	updated, err := svc.Update(ctx, member.ID, &model.UpdateTeamMemberRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, member.Specialty, updated.Specialty)

	_, err = svc.Update(ctx, uuid.New(), &model.UpdateTeamMemberRequest{Name: &name})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Team member not found", appErr.Message)

	ok, err = svc.Delete(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedListIsInvalidatedByWrites(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().TeamMembers(), cache.New(time.Minute, time.Minute), nil)

	_, err := svc.Create(ctx, newMember("Dra. Ana", 2))
	require.NoError(t, err)

	members, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)

	_, err = svc.Create(ctx, newMember("Dr. Diego", 1))
	require.NoError(t, err)

	members, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Dr. Diego", members[0].Name)
}

// pausedListRepo holds its first List after reading, until released.
type pausedListRepo struct {
	repository.TeamMemberRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *pausedListRepo) List(ctx context.Context) ([]*model.TeamMember, error) {
	members, err := r.TeamMemberRepository.List(ctx)
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return members, err
}

func TestLoadOverlappingWriteIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &pausedListRepo{
		TeamMemberRepository: memory.NewStore().TeamMembers(),
		entered:              make(chan struct{}),
		release:              make(chan struct{}),
	}
	svc := NewService(repo, cache.New(time.Minute, time.Minute), nil)

	member, err := svc.Create(ctx, newMember("Ana", 1))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.List(ctx)
		assert.NoError(t, err)
	}()

	<-repo.entered
	_, err = svc.Update(ctx, member.ID, &model.UpdateTeamMemberRequest{Name: strPtr("Ana Paula")})
	require.NoError(t, err)
	close(repo.release)
	<-done

	members, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Ana Paula", members[0].Name)
}

func strPtr(s string) *string { return &s }
