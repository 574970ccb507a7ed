package model

import "github.com/lib/pq"

type TeamMember struct {
	Base
	Name            string         `json:"name" db:"name"`
	Specialty       string         `json:"specialty" db:"specialty"`
	ExperienceYears int            `json:"experienceYears" db:"experience_years"`
	Credentials     string         `json:"credentials" db:"credentials"`
	ImageURL        *string        `json:"imageUrl" db:"image_url"`
	Specialties     pq.StringArray `json:"specialties" db:"specialties"`
	DisplayOrder    int            `json:"displayOrder" db:"display_order"`
}

type CreateTeamMemberRequest struct {
	Name            string   `json:"name" binding:"required,notblank,max=200"`
	Specialty       string   `json:"specialty" binding:"required,notblank,max=200"`
	ExperienceYears *int     `json:"experienceYears" binding:"required,min=0,max=80"`
	Credentials     string   `json:"credentials" binding:"required,notblank,max=200"`
	ImageURL        *string  `json:"imageUrl" binding:"omitempty,max=2048"`
	Specialties     []string `json:"specialties" binding:"omitempty,dive,max=200"`
	DisplayOrder    int      `json:"displayOrder"`
}

type UpdateTeamMemberRequest struct {
	Name            *string   `json:"name" binding:"omitempty,notblank,max=200"`
	Specialty       *string   `json:"specialty" binding:"omitempty,notblank,max=200"`
	ExperienceYears *int      `json:"experienceYears" binding:"omitempty,min=0,max=80"`
	Credentials     *string   `json:"credentials" binding:"omitempty,notblank,max=200"`
	ImageURL        *string   `json:"imageUrl" binding:"omitempty,max=2048"`
	Specialties     *[]string `json:"specialties" binding:"omitempty,dive,max=200"`
	DisplayOrder    *int      `json:"displayOrder"`
}
