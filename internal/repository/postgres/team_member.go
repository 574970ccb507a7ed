package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

const teamMemberColumns = `id, name, specialty, experience_years, credentials, image_url,
	specialties, display_order, created_at, updated_at`

func (r *teamMemberRepository) Create(ctx context.Context, member *model.TeamMember) error {
	query := `
		INSERT INTO team_members (
			id, name, specialty, experience_years, credentials, image_url,
			specialties, display_order, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	member.Touch(r.now())
	if member.Specialties == nil {
		member.Specialties = pq.StringArray{}
	}

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Specialty,
		member.ExperienceYears,
		member.Credentials,
		member.ImageURL,
		member.Specialties,
		member.DisplayOrder,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create team member: %w", translate(err))
	}
	return nil
}

func (r *teamMemberRepository) Get(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = $1`

	var member model.TeamMember
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", translate(err))
	}
	return &member, nil
}

func (r *teamMemberRepository) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateTeamMemberRequest) (*model.TeamMember, error) {
	query := `
		UPDATE team_members SET
			name             = COALESCE($2, name),
			specialty        = COALESCE($3, specialty),
			experience_years = COALESCE($4, experience_years),
			credentials      = COALESCE($5, credentials),
			image_url        = COALESCE($6, image_url),
			specialties      = COALESCE($7, specialties),
			display_order    = COALESCE($8, display_order),
			updated_at       = $9
		WHERE id = $1
		RETURNING ` + teamMemberColumns

	var specialties interface{}
	if patch.Specialties != nil {
		specialties = pq.StringArray(*patch.Specialties)
	}

	var member model.TeamMember
	err := r.db.GetContext(ctx, &member, query,
		id,
		patch.Name,
		patch.Specialty,
		patch.ExperienceYears,
		patch.Credentials,
		patch.ImageURL,
		specialties,
		patch.DisplayOrder,
		r.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", translate(err))
	}
	return &member, nil
}

func (r *teamMemberRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete team member: %w", err)
	}
	return deleted(result)
}

func (r *teamMemberRepository) List(ctx context.Context) ([]*model.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members ORDER BY display_order ASC, created_at ASC`

	members := []*model.TeamMember{}
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}
