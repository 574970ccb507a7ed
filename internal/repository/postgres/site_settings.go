package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

const siteSettingsColumns = `id, site_name, hero_title, hero_description, hero_image_url, created_at, updated_at`

func (r *siteSettingsRepository) Get(ctx context.Context) (*model.SiteSettings, error) {
	query := `SELECT ` + siteSettingsColumns + ` FROM site_settings WHERE singleton`

	var settings model.SiteSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("failed to get site settings: %w", translate(err))
	}
	return &settings, nil
}

// Upsert is a single statement: the insert branch only runs when the
// singleton row is missing.
func (r *siteSettingsRepository) Upsert(ctx context.Context, patch *model.UpdateSiteSettingsRequest) (*model.SiteSettings, error) {
	query := `
		INSERT INTO site_settings (
			id, singleton, site_name, hero_title, hero_description, hero_image_url, created_at, updated_at
		) VALUES (
			$1, TRUE,
			COALESCE($2, $6), COALESCE($3, $7), COALESCE($4, $8), $5,
			$9, $9
		)
		ON CONFLICT (singleton) DO UPDATE SET
			site_name        = COALESCE($2, site_settings.site_name),
			hero_title       = COALESCE($3, site_settings.hero_title),
			hero_description = COALESCE($4, site_settings.hero_description),
			hero_image_url   = COALESCE($5, site_settings.hero_image_url),
			updated_at       = $9
		RETURNING ` + siteSettingsColumns

	defaults := model.DefaultSiteSettings()
	now := r.now()

	var settings model.SiteSettings
	err := r.db.GetContext(ctx, &settings, query,
		uuid.New(),
		patch.SiteName,
		patch.HeroTitle,
		patch.HeroDescription,
		patch.HeroImageURL,
		defaults.SiteName,
		defaults.HeroTitle,
		defaults.HeroDescription,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update site settings: %w", translate(err))
	}
	return &settings, nil
}
