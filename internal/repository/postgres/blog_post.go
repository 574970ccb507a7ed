package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

const blogPostColumns = `id, title, content, excerpt, featured_image_url, category,
	status, author_id, created_at, updated_at`

func (r *blogPostRepository) Create(ctx context.Context, post *model.BlogPost) error {
	query := `
		INSERT INTO blog_posts (
			id, title, content, excerpt, featured_image_url, category,
			status, author_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	post.Touch(r.now())

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.FeaturedImageURL,
		post.Category,
		post.Status,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blog post: %w", translate(err))
	}
	return nil
}

func (r *blogPostRepository) Get(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = $1`

	var post model.BlogPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", translate(err))
	}
	return &post, nil
}

func (r *blogPostRepository) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateBlogPostRequest) (*model.BlogPost, error) {
	query := `
		UPDATE blog_posts SET
			title              = COALESCE($2, title),
			content            = COALESCE($3, content),
			excerpt            = COALESCE($4, excerpt),
			featured_image_url = COALESCE($5, featured_image_url),
			category           = COALESCE($6, category),
			status             = COALESCE($7, status),
			updated_at         = $8
		WHERE id = $1
		RETURNING ` + blogPostColumns

	var category, status interface{}
	if patch.Category != nil {
		category = string(*patch.Category)
	}
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	var post model.BlogPost
	err := r.db.GetContext(ctx, &post, query,
		id,
		patch.Title,
		patch.Content,
		patch.Excerpt,
		patch.FeaturedImageURL,
		category,
		status,
		r.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", translate(err))
	}
	return &post, nil
}

func (r *blogPostRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete blog post: %w", err)
	}
	return deleted(result)
}

func (r *blogPostRepository) List(ctx context.Context, filters model.BlogPostFilters) ([]*model.BlogPost, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Status != "" {
		where = append(where, "status = "+arg(filters.Status))
	}
	if filters.Category != "" {
		where = append(where, "category = "+arg(filters.Category))
	}
	if filters.Exclude != uuid.Nil {
		where = append(where, "id <> "+arg(filters.Exclude))
	}

	query := `SELECT ` + blogPostColumns + ` FROM blog_posts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		query += " LIMIT " + arg(filters.Limit)
	}

	posts := []*model.BlogPost{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}
