package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

// Date and time columns are rendered as text so they round-trip in the
// same shape the booking form submits.
const appointmentColumns = `id, patient_name, patient_email, patient_phone,
	to_char(preferred_date, 'YYYY-MM-DD') AS preferred_date,
	to_char(preferred_time, 'HH24:MI') AS preferred_time,
	service_type, message, status, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_name, patient_email, patient_phone,
			preferred_date, preferred_time, service_type, message,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::date, $6::time, $7, $8, $9, $10, $11)
	`
	appointment.Touch(r.now())

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientName,
		appointment.PatientEmail,
		appointment.PatientPhone,
		appointment.PreferredDate,
		appointment.PreferredTime,
		appointment.ServiceType,
		appointment.Message,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", translate(err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", translate(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	query := `
		UPDATE appointments SET
			patient_name   = COALESCE($2, patient_name),
			patient_email  = COALESCE($3, patient_email),
			patient_phone  = COALESCE($4, patient_phone),
			preferred_date = COALESCE($5::date, preferred_date),
			preferred_time = COALESCE($6::time, preferred_time),
			service_type   = COALESCE($7, service_type),
			message        = COALESCE($8, message),
			status         = COALESCE($9, status),
			updated_at     = $10
		WHERE id = $1
		RETURNING ` + appointmentColumns

	var status interface{}
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query,
		id,
		patch.PatientName,
		patch.PatientEmail,
		patch.PatientPhone,
		patch.PreferredDate,
		patch.PreferredTime,
		patch.ServiceType,
		patch.Message,
		status,
		r.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", translate(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", err)
	}
	return deleted(result)
}

func (r *appointmentRepository) List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	args := []interface{}{}

	if filters.Status != "" {
		query += " WHERE status = $1"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at ASC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
