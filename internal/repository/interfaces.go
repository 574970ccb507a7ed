package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type (
	// AdminRepository is the credential store.
	AdminRepository interface {
		Create(ctx context.Context, account *model.AdminAccount) error
		Get(ctx context.Context, id uuid.UUID) (*model.AdminAccount, error)
		GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error)
	}

	SiteSettingsRepository interface {
		Get(ctx context.Context) (*model.SiteSettings, error)
		// Upsert patches the single settings row, creating it from defaults when absent.
		Upsert(ctx context.Context, patch *model.UpdateSiteSettingsRequest) (*model.SiteSettings, error)
	}

	TeamMemberRepository interface {
		Create(ctx context.Context, member *model.TeamMember) error
		Get(ctx context.Context, id uuid.UUID) (*model.TeamMember, error)
		Update(ctx context.Context, id uuid.UUID, patch *model.UpdateTeamMemberRequest) (*model.TeamMember, error)
		Delete(ctx context.Context, id uuid.UUID) (bool, error)
		List(ctx context.Context) ([]*model.TeamMember, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error)
		Delete(ctx context.Context, id uuid.UUID) (bool, error)
		List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error)
	}

	BlogPostRepository interface {
		Create(ctx context.Context, post *model.BlogPost) error
		Get(ctx context.Context, id uuid.UUID) (*model.BlogPost, error)
		Update(ctx context.Context, id uuid.UUID, patch *model.UpdateBlogPostRequest) (*model.BlogPost, error)
		Delete(ctx context.Context, id uuid.UUID) (bool, error)
		List(ctx context.Context, filters model.BlogPostFilters) ([]*model.BlogPost, error)
	}
)
