package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

//go:embed templates/*.html
var templates embed.FS

var meetingScheduled = template.Must(template.ParseFS(templates, "templates/meeting_scheduled.html"))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Dialer:   gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendMeetingScheduled(to, name string, event queue.MeetingEvent) error {
	body, err := RenderMeetingScheduled(MeetingScheduledData{
		Name:     name,
		Agenda:   event.Agenda,
		When:     event.DateTime.UTC().Format(time.RFC1123),
		Location: event.Location,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Meeting scheduled: %s", event.Agenda))
	m.SetBody("text/html", body)

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp mail: %w", err)
	}
	return nil
}

func RenderMeetingScheduled(data MeetingScheduledData) (string, error) {
	var body bytes.Buffer
	if err := meetingScheduled.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render meeting template: %w", err)
	}
	return body.String(), nil
}
