package model

const (
	DefaultSiteName        = "DentalCare"
	DefaultHeroTitle       = "Seu sorriso é nossa prioridade"
	DefaultHeroDescription = "Oferecemos cuidados odontológicos modernos e personalizados para toda a família. Tecnologia avançada e atendimento humanizado."
)

// SiteSettings is a single-row table.
type SiteSettings struct {
	Base
	SiteName        string  `json:"siteName" db:"site_name"`
	HeroTitle       string  `json:"heroTitle" db:"hero_title"`
	HeroDescription string  `json:"heroDescription" db:"hero_description"`
	HeroImageURL    *string `json:"heroImageUrl" db:"hero_image_url"`
}

func DefaultSiteSettings() *SiteSettings {
	return &SiteSettings{
		SiteName:        DefaultSiteName,
		HeroTitle:       DefaultHeroTitle,
		HeroDescription: DefaultHeroDescription,
	}
}

type UpdateSiteSettingsRequest struct {
	SiteName        *string `json:"siteName" binding:"omitempty,notblank,max=200"`
	HeroTitle       *string `json:"heroTitle" binding:"omitempty,notblank,max=500"`
	HeroDescription *string `json:"heroDescription" binding:"omitempty,notblank,max=2000"`
	HeroImageURL    *string `json:"heroImageUrl" binding:"omitempty,max=2048"`
}

// Apply copies the set fields of the patch onto s.
func (r *UpdateSiteSettingsRequest) Apply(s *SiteSettings) {
	if r.SiteName != nil {
		s.SiteName = *r.SiteName
	}
	if r.HeroTitle != nil {
		s.HeroTitle = *r.HeroTitle
	}
	if r.HeroDescription != nil {
		s.HeroDescription = *r.HeroDescription
	}
	if r.HeroImageURL != nil {
		s.HeroImageURL = r.HeroImageURL
	}
}
