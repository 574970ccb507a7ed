package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSendBuildsMessage(t *testing.T) {
	dialer := &recordingDialer{}
	svc := NewSMTPServiceWithDialer("no-reply@dentalcare.com", dialer)

	err := svc.Send(context.Background(), Message{
		To:      "clinic@dentalcare.com",
		ReplyTo: "maria@example.com",
		Subject: "Nova solicitação de agendamento",
		Body:    "Paciente: Maria",
	})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"no-reply@dentalcare.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"clinic@dentalcare.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"maria@example.com"}, m.GetHeader("Reply-To"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Paciente: Maria")
}

func TestSendRequiresRecipient(t *testing.T) {
	svc := NewSMTPServiceWithDialer("from@x.com", &recordingDialer{})
	assert.Error(t, svc.Send(context.Background(), Message{Subject: "hi"}))
}

func TestSendWrapsDialerError(t *testing.T) {
	svc := NewSMTPServiceWithDialer("from@x.com", &recordingDialer{err: errors.New("535 auth failed")})

	err := svc.Send(context.Background(), Message{To: "a@b.com"})
	assert.ErrorContains(t, err, "535 auth failed")
}

func TestSendHonorsContext(t *testing.T) {
	svc := NewSMTPServiceWithDialer("from@x.com", &recordingDialer{delay: 200 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := svc.Send(ctx, Message{To: "a@b.com"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
