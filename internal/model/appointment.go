package model

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

type Appointment struct {
	Base
	PatientName   string            `json:"patientName" db:"patient_name"`
	PatientEmail  string            `json:"patientEmail" db:"patient_email"`
	PatientPhone  string            `json:"patientPhone" db:"patient_phone"`
	PreferredDate string            `json:"preferredDate" db:"preferred_date"`
	PreferredTime string            `json:"preferredTime" db:"preferred_time"`
	ServiceType   string            `json:"serviceType" db:"service_type"`
	Message       *string           `json:"message" db:"message"`
	Status        AppointmentStatus `json:"status" db:"status"`
}

// CreateAppointmentRequest is the public booking form. Any status sent by
// the client is ignored.
type CreateAppointmentRequest struct {
	PatientName   string  `json:"patientName" binding:"required,notblank,max=200"`
	PatientEmail  string  `json:"patientEmail" binding:"required,email"`
	PatientPhone  string  `json:"patientPhone" binding:"required,notblank,max=40"`
	PreferredDate string  `json:"preferredDate" binding:"required,isodate"`
	PreferredTime string  `json:"preferredTime" binding:"required,hhmm"`
	ServiceType   string  `json:"serviceType" binding:"required,notblank,max=200"`
	Message       *string `json:"message" binding:"omitempty,max=5000"`
}

type UpdateAppointmentRequest struct {
	PatientName   *string            `json:"patientName" binding:"omitempty,notblank,max=200"`
	PatientEmail  *string            `json:"patientEmail" binding:"omitempty,email"`
	PatientPhone  *string            `json:"patientPhone" binding:"omitempty,notblank,max=40"`
	PreferredDate *string            `json:"preferredDate" binding:"omitempty,isodate"`
	PreferredTime *string            `json:"preferredTime" binding:"omitempty,hhmm"`
	ServiceType   *string            `json:"serviceType" binding:"omitempty,notblank,max=200"`
	Message       *string            `json:"message" binding:"omitempty,max=5000"`
	Status        *AppointmentStatus `json:"status" binding:"omitempty,appointmentstatus"`
}

type AppointmentFilters struct {
	Status AppointmentStatus
}
