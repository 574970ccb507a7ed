package model

import "github.com/google/uuid"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished || s == PostStatusArchived
}

type PostCategory string

const (
	PostCategoryEvent     PostCategory = "evento"
	PostCategoryPromotion PostCategory = "promocao"
)

func (c PostCategory) Valid() bool {
	return c == PostCategoryEvent || c == PostCategoryPromotion
}

type BlogPost struct {
	Base
	Title            string       `json:"title" db:"title"`
	Content          string       `json:"content" db:"content"`
	Excerpt          *string      `json:"excerpt" db:"excerpt"`
	FeaturedImageURL *string      `json:"featuredImageUrl" db:"featured_image_url"`
	Category         PostCategory `json:"category" db:"category"`
	Status           PostStatus   `json:"status" db:"status"`
	AuthorID         *uuid.UUID   `json:"authorId" db:"author_id"`
}

type CreateBlogPostRequest struct {
	Title            string       `json:"title" binding:"required,notblank,max=300"`
	Content          string       `json:"content" binding:"required,notblank"`
	Excerpt          *string      `json:"excerpt" binding:"omitempty,max=1000"`
	FeaturedImageURL *string      `json:"featuredImageUrl" binding:"omitempty,max=2048"`
	Category         PostCategory `json:"category" binding:"omitempty,postcategory"`
	Status           PostStatus   `json:"status" binding:"omitempty,poststatus"`
}

type UpdateBlogPostRequest struct {
	Title            *string       `json:"title" binding:"omitempty,notblank,max=300"`
	Content          *string       `json:"content" binding:"omitempty,notblank"`
	Excerpt          *string       `json:"excerpt" binding:"omitempty,max=1000"`
	FeaturedImageURL *string       `json:"featuredImageUrl" binding:"omitempty,max=2048"`
	Category         *PostCategory `json:"category" binding:"omitempty,postcategory"`
	Status           *PostStatus   `json:"status" binding:"omitempty,poststatus"`
}

// BlogPostFilters narrows a blog listing. Limit <= 0 means no limit.
type BlogPostFilters struct {
	Status   PostStatus
	Category PostCategory
	Exclude  uuid.UUID
	Limit    int
}
