package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

type statusChange struct {
	from, to model.AppointmentStatus
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []uuid.UUID
	changes []statusChange
}

func (n *recordingNotifier) AppointmentCreated(a *model.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, a.ID)
}

func (n *recordingNotifier) AppointmentStatusChanged(a *model.Appointment, previous model.AppointmentStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, statusChange{previous, a.Status})
}

func booking() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientName:   "Maria Silva",
		PatientEmail:  "maria@example.com",
		PatientPhone:  "+55 11 99999-0000",
		PreferredDate: "2026-11-03",
		PreferredTime: "14:30:00",
		ServiceType:   "Limpeza",
	}
}

func TestCreateForcesPendingAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	m := metrics.New("test")
	svc := NewService(memory.NewStore().Appointments(), notifier, m)

	appointment, err := svc.Create(context.Background(), booking())
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, "14:30", appointment.PreferredTime)
	assert.Equal(t, []uuid.UUID{appointment.ID}, notifier.created)
}

func TestUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc := NewService(memory.NewStore().Appointments(), notifier, nil)

	appointment, err := svc.Create(ctx, booking())
	require.NoError(t, err)

	// Transitions are unconstrained, including back to pending.
	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusPending,
		model.AppointmentStatusCancelled,
	} {
		status := status
		updated, err := svc.Update(ctx, appointment.ID, &model.UpdateAppointmentRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	require.Len(t, notifier.changes, 4)
	assert.Equal(t, statusChange{model.AppointmentStatusPending, model.AppointmentStatusConfirmed}, notifier.changes[0])
	assert.Equal(t, statusChange{model.AppointmentStatusPending, model.AppointmentStatusCancelled}, notifier.changes[3])
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Appointments(), nil, nil)

	appointment, err := svc.Create(ctx, booking())
	require.NoError(t, err)

	bogus := model.AppointmentStatus("rescheduled")
	_, err = svc.Update(ctx, appointment.ID, &model.UpdateAppointmentRequest{Status: &bogus})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUpdateWithoutStatusDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc := NewService(memory.NewStore().Appointments(), notifier, nil)

	appointment, err := svc.Create(ctx, booking())
	require.NoError(t, err)

	when := "09:00:00"
	updated, err := svc.Update(ctx, appointment.ID, &model.UpdateAppointmentRequest{PreferredTime: &when})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.PreferredTime)
	assert.Empty(t, notifier.changes)
}

func TestMissingAppointment(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Appointments(), nil, nil)

	_, err := svc.Get(ctx, uuid.New())
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Appointment not found", appErr.Message)

	status := model.AppointmentStatusConfirmed
	_, err = svc.Update(ctx, uuid.New(), &model.UpdateAppointmentRequest{Status: &status})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	ok, err = svc.Delete(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Appointments(), nil, nil)

	first, err := svc.Create(ctx, booking())
	require.NoError(t, err)
	_, err = svc.Create(ctx, booking())
	require.NoError(t, err)

	confirmed := model.AppointmentStatusConfirmed
	_, err = svc.Update(ctx, first.ID, &model.UpdateAppointmentRequest{Status: &confirmed})
	require.NoError(t, err)

	all, err := svc.List(ctx, model.AppointmentFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "oldest first")

	pending, err := svc.List(ctx, model.AppointmentFilters{Status: model.AppointmentStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.List(ctx, model.AppointmentFilters{Status: "nope"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "08:15", NormalizeTime("08:15"))
	assert.Equal(t, "08:15", NormalizeTime("08:15:59"))
	assert.Equal(t, "08:15", NormalizeTime(" 08:15 "))
}
