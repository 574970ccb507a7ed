package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

type adminRepository struct {
	BaseRepository
}

type siteSettingsRepository struct {
	BaseRepository
}

type teamMemberRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type blogPostRepository struct {
	BaseRepository
}

func NewAdminRepository(db *sqlx.DB) repository.AdminRepository {
	return &adminRepository{NewBaseRepository(db)}
}

func NewSiteSettingsRepository(db *sqlx.DB) repository.SiteSettingsRepository {
	return &siteSettingsRepository{NewBaseRepository(db)}
}

func NewTeamMemberRepository(db *sqlx.DB) repository.TeamMemberRepository {
	return &teamMemberRepository{NewBaseRepository(db)}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewBlogPostRepository(db *sqlx.DB) repository.BlogPostRepository {
	return &blogPostRepository{NewBaseRepository(db)}
}
