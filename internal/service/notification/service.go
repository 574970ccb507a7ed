package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/email"
	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/pkg/messaging"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"

	channelBroker = "broker"
	channelEmail  = "email"

	defaultTimeout = 10 * time.Second
)

// Notifier is told about appointment lifecycle events. Implementations must
// not block the caller.
type Notifier interface {
	AppointmentCreated(appointment *model.Appointment)
	AppointmentStatusChanged(appointment *model.Appointment, previous model.AppointmentStatus)
}

// Noop discards every event.
type Noop struct{}

func (Noop) AppointmentCreated(*model.Appointment)                                {}
func (Noop) AppointmentStatusChanged(*model.Appointment, model.AppointmentStatus) {}

type Config struct {
	Channel     string
	ClinicInbox string
	Timeout     time.Duration
}

// StatusChange is the payload of an appointment.status_changed event.
type StatusChange struct {
	Appointment *model.Appointment      `json:"appointment"`
	Previous    model.AppointmentStatus `json:"previousStatus"`
}

// Dispatcher fans events out to the broker and to email. Either may be nil.
// Each event runs in its own goroutine under cfg.Timeout; failures are
// logged and counted, never retried.
type Dispatcher struct {
	broker  messaging.Broker
	mailer  email.Service
	cfg     Config
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewDispatcher(broker messaging.Broker, mailer email.Service, cfg Config, m *metrics.Metrics) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Dispatcher{
		broker:  broker,
		mailer:  mailer,
		cfg:     cfg,
		metrics: m,
	}
}

func (d *Dispatcher) AppointmentCreated(appointment *model.Appointment) {
	snapshot := *appointment
	d.dispatch(func(ctx context.Context) {
		d.publish(ctx, messaging.NewMessage(EventAppointmentCreated, &snapshot))
		if d.cfg.ClinicInbox != "" {
			d.send(ctx, clinicBookingEmail(d.cfg.ClinicInbox, &snapshot))
		}
	})
}

func (d *Dispatcher) AppointmentStatusChanged(appointment *model.Appointment, previous model.AppointmentStatus) {
	if appointment.Status == previous {
		return
	}
	snapshot := *appointment
	d.dispatch(func(ctx context.Context) {
		d.publish(ctx, messaging.NewMessage(EventAppointmentStatusChanged, StatusChange{
			Appointment: &snapshot,
			Previous:    previous,
		}))
		if msg, ok := patientStatusEmail(&snapshot); ok {
			d.send(ctx, msg)
		}
	})
}

// Wait blocks until in-flight notifications finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("notification dispatch panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (d *Dispatcher) publish(ctx context.Context, msg messaging.Message) {
	if d.broker == nil {
		return
	}
	if err := d.broker.Publish(ctx, d.cfg.Channel, msg); err != nil {
		d.metrics.Notification(channelBroker, "failed")
		log.Warn().Err(err).Str("event", msg.Type).Msg("failed to publish event")
		return
	}
	d.metrics.Notification(channelBroker, "sent")
}

func (d *Dispatcher) send(ctx context.Context, msg email.Message) {
	if d.mailer == nil {
		return
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.metrics.Notification(channelEmail, "failed")
		log.Warn().Err(err).Str("subject", msg.Subject).Msg("failed to send email")
		return
	}
	d.metrics.Notification(channelEmail, "sent")
}

func clinicBookingEmail(inbox string, a *model.Appointment) email.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Nova solicitação de agendamento recebida.\n\n")
	fmt.Fprintf(&b, "Paciente: %s\n", a.PatientName)
	fmt.Fprintf(&b, "E-mail: %s\n", a.PatientEmail)
	fmt.Fprintf(&b, "Telefone: %s\n", a.PatientPhone)
	fmt.Fprintf(&b, "Serviço: %s\n", a.ServiceType)
	fmt.Fprintf(&b, "Data preferida: %s às %s\n", a.PreferredDate, a.PreferredTime)
	if a.Message != nil && *a.Message != "" {
		fmt.Fprintf(&b, "\nMensagem:\n%s\n", *a.Message)
	}
	fmt.Fprintf(&b, "\nID: %s\n", a.ID)

	return email.Message{
		To:      inbox,
		ReplyTo: a.PatientEmail,
		Subject: fmt.Sprintf("Novo agendamento: %s", a.PatientName),
		Body:    b.String(),
	}
}

// patientStatusEmail returns the patient-facing email for a status, if the
// status warrants one.
func patientStatusEmail(a *model.Appointment) (email.Message, bool) {
	var subject, line string
	switch a.Status {
	case model.AppointmentStatusConfirmed:
		subject = "Seu agendamento foi confirmado"
		line = "Sua consulta foi confirmada."
	case model.AppointmentStatusCancelled:
		subject = "Seu agendamento foi cancelado"
		line = "Sua consulta foi cancelada. Entre em contato conosco para reagendar."
	default:
		return email.Message{}, false
	}

	body := fmt.Sprintf("Olá, %s.\n\n%s\n\nServiço: %s\nData: %s às %s\n",
		a.PatientName, line, a.ServiceType, a.PreferredDate, a.PreferredTime)

	return email.Message{To: a.PatientEmail, Subject: subject, Body: body}, true
}
