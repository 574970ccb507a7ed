// Package memory provides map-backed repositories for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

// Store holds every table behind one lock.
type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	admins       map[uuid.UUID]model.AdminAccount
	settings     *model.SiteSettings
	teamMembers  map[uuid.UUID]model.TeamMember
	appointments map[uuid.UUID]model.Appointment
	blogPosts    map[uuid.UUID]model.BlogPost
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns a store seeded with default site settings.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:          func() time.Time { return time.Now().UTC() },
		admins:       make(map[uuid.UUID]model.AdminAccount),
		teamMembers:  make(map[uuid.UUID]model.TeamMember),
		appointments: make(map[uuid.UUID]model.Appointment),
		blogPosts:    make(map[uuid.UUID]model.BlogPost),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.now = monotonic(s.now)

	settings := model.DefaultSiteSettings()
	settings.Touch(s.now())
	s.settings = settings

	return s
}

// monotonic makes every timestamp strictly later than the previous one, so
// ordering by creation time is stable.
func monotonic(now func() time.Time) func() time.Time {
	var (
		mu   sync.Mutex
		last time.Time
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now()
		if !t.After(last) {
			t = last.Add(time.Microsecond)
		}
		last = t
		return t
	}
}

func (s *Store) Admins() repository.AdminRepository             { return adminRepo{s} }
func (s *Store) SiteSettings() repository.SiteSettingsRepository { return settingsRepo{s} }
func (s *Store) TeamMembers() repository.TeamMemberRepository    { return teamRepo{s} }
func (s *Store) Appointments() repository.AppointmentRepository  { return appointmentRepo{s} }
func (s *Store) BlogPosts() repository.BlogPostRepository        { return blogRepo{s} }

func alive(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

type adminRepo struct{ s *Store }

func (r adminRepo) Create(ctx context.Context, account *model.AdminAccount) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.admins {
		if model.NormalizeEmail(a.Email) == model.NormalizeEmail(account.Email) {
			return repository.ErrDuplicate
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = r.s.now()
	r.s.admins[account.ID] = *account
	return nil
}

func (r adminRepo) Get(ctx context.Context, id uuid.UUID) (*model.AdminAccount, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r adminRepo) GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if model.NormalizeEmail(a.Email) == model.NormalizeEmail(email) {
			a := a
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

// DeleteAdmin removes an account. There is no HTTP path for this; tests use
// it to simulate an account disappearing while its token is still valid.
func (s *Store) DeleteAdmin(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, id)
}

type settingsRepo struct{ s *Store }

func (r settingsRepo) Get(ctx context.Context) (*model.SiteSettings, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.settings == nil {
		return nil, repository.ErrNotFound
	}
	settings := *r.s.settings
	return &settings, nil
}

func (r settingsRepo) Upsert(ctx context.Context, patch *model.UpdateSiteSettingsRequest) (*model.SiteSettings, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if r.s.settings == nil {
		r.s.settings = model.DefaultSiteSettings()
		r.s.settings.Touch(now)
	}
	patch.Apply(r.s.settings)
	r.s.settings.UpdatedAt = now

	settings := *r.s.settings
	return &settings, nil
}

// ClearSiteSettings drops the singleton row.
func (s *Store) ClearSiteSettings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = nil
}

type teamRepo struct{ s *Store }

func (r teamRepo) Create(ctx context.Context, member *model.TeamMember) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	member.Touch(r.s.now())
	if member.Specialties == nil {
		member.Specialties = pq.StringArray{}
	}
	r.s.teamMembers[member.ID] = *member
	return nil
}

func (r teamRepo) Get(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.teamMembers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r teamRepo) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateTeamMemberRequest) (*model.TeamMember, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.teamMembers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Specialty != nil {
		m.Specialty = *patch.Specialty
	}
	if patch.ExperienceYears != nil {
		m.ExperienceYears = *patch.ExperienceYears
	}
	if patch.Credentials != nil {
		m.Credentials = *patch.Credentials
	}
	if patch.ImageURL != nil {
		m.ImageURL = patch.ImageURL
	}
	if patch.Specialties != nil {
		m.Specialties = append(pq.StringArray{}, *patch.Specialties...)
	}
	if patch.DisplayOrder != nil {
		m.DisplayOrder = *patch.DisplayOrder
	}
	m.UpdatedAt = r.s.now()
	r.s.teamMembers[id] = m
	return &m, nil
}

func (r teamRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teamMembers[id]; !ok {
		return false, nil
	}
	delete(r.s.teamMembers, id)
	return true, nil
}

func (r teamRepo) List(ctx context.Context) ([]*model.TeamMember, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	members := make([]*model.TeamMember, 0, len(r.s.teamMembers))
	for _, m := range r.s.teamMembers {
		m := m
		members = append(members, &m)
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].DisplayOrder != members[j].DisplayOrder {
			return members[i].DisplayOrder < members[j].DisplayOrder
		}
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

type appointmentRepo struct{ s *Store }

func (r appointmentRepo) Create(ctx context.Context, appointment *model.Appointment) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	appointment.Touch(r.s.now())
	r.s.appointments[appointment.ID] = *appointment
	return nil
}

func (r appointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r appointmentRepo) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.PatientName != nil {
		a.PatientName = *patch.PatientName
	}
	if patch.PatientEmail != nil {
		a.PatientEmail = *patch.PatientEmail
	}
	if patch.PatientPhone != nil {
		a.PatientPhone = *patch.PatientPhone
	}
	if patch.PreferredDate != nil {
		a.PreferredDate = *patch.PreferredDate
	}
	if patch.PreferredTime != nil {
		a.PreferredTime = *patch.PreferredTime
	}
	if patch.ServiceType != nil {
		a.ServiceType = *patch.ServiceType
	}
	if patch.Message != nil {
		a.Message = patch.Message
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	a.UpdatedAt = r.s.now()
	r.s.appointments[id] = a
	return &a, nil
}

func (r appointmentRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return false, nil
	}
	delete(r.s.appointments, id)
	return true, nil
}

func (r appointmentRepo) List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	appointments := make([]*model.Appointment, 0, len(r.s.appointments))
	for _, a := range r.s.appointments {
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		a := a
		appointments = append(appointments, &a)
	}
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].CreatedAt.Before(appointments[j].CreatedAt)
	})
	return appointments, nil
}

type blogRepo struct{ s *Store }

func (r blogRepo) Create(ctx context.Context, post *model.BlogPost) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post.Touch(r.s.now())
	r.s.blogPosts[post.ID] = *post
	return nil
}

func (r blogRepo) Get(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.blogPosts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r blogRepo) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateBlogPostRequest) (*model.BlogPost, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.blogPosts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Excerpt != nil {
		p.Excerpt = patch.Excerpt
	}
	if patch.FeaturedImageURL != nil {
		p.FeaturedImageURL = patch.FeaturedImageURL
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = r.s.now()
	r.s.blogPosts[id] = p
	return &p, nil
}

func (r blogRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.blogPosts[id]; !ok {
		return false, nil
	}
	delete(r.s.blogPosts, id)
	return true, nil
}

func (r blogRepo) List(ctx context.Context, filters model.BlogPostFilters) ([]*model.BlogPost, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := make([]*model.BlogPost, 0, len(r.s.blogPosts))
	for _, p := range r.s.blogPosts {
		if filters.Status != "" && p.Status != filters.Status {
			continue
		}
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.Exclude != uuid.Nil && p.ID == filters.Exclude {
			continue
		}
		p := p
		posts = append(posts, &p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if filters.Limit > 0 && len(posts) > filters.Limit {
		posts = posts[:filters.Limit]
	}
	return posts, nil
}
