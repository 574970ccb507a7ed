package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	"github.com/jwalitptl/dentalcare-api/internal/service/notification"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

const resource = "Appointment"

type Service struct {
	repo     repository.AppointmentRepository
	notifier notification.Notifier
	metrics  *metrics.Metrics
}

func NewService(repo repository.AppointmentRepository, notifier notification.Notifier, m *metrics.Metrics) *Service {
	if notifier == nil {
		notifier = notification.Noop{}
	}
	return &Service{repo: repo, notifier: notifier, metrics: m}
}

func (s *Service) List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.Validation("Invalid status", nil)
	}
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return appointment, nil
}

// Create books a new appointment. The status always starts as pending.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	appointment := &model.Appointment{
		PatientName:   strings.TrimSpace(req.PatientName),
		PatientEmail:  strings.TrimSpace(req.PatientEmail),
		PatientPhone:  strings.TrimSpace(req.PatientPhone),
		PreferredDate: req.PreferredDate,
		PreferredTime: NormalizeTime(req.PreferredTime),
		ServiceType:   strings.TrimSpace(req.ServiceType),
		Message:       req.Message,
		Status:        model.AppointmentStatusPending,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.AppointmentCreated()
	s.notifier.AppointmentCreated(appointment)

	log.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("service_type", appointment.ServiceType).
		Msg("appointment requested")
	return appointment, nil
}

// Update patches an appointment. Any status may move to any other status.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.Validation("Invalid status", nil)
	}
	if patch.PreferredTime != nil {
		t := NormalizeTime(*patch.PreferredTime)
		patch.PreferredTime = &t
	}

	var previous model.AppointmentStatus
	if patch.Status != nil {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, translate(err)
		}
		previous = current.Status
	}

	appointment, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, translate(err)
	}

	if patch.Status != nil && appointment.Status != previous {
		log.Info().
			Str("appointment_id", id.String()).
			Str("from", string(previous)).
			Str("to", string(appointment.Status)).
			Msg("appointment status changed")
		s.notifier.AppointmentStatusChanged(appointment, previous)
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return ok, nil
}

// NormalizeTime trims an optional seconds component: "09:30:00" becomes "09:30".
func NormalizeTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) == len("15:04:05") && strings.Count(t, ":") == 2 {
		return t[:5]
	}
	return t
}

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}
