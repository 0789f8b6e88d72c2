package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/davideparisimodena/careconnect/internal/config"
	"github.com/davideparisimodena/careconnect/internal/model"
)

// Notifier delivers claim notifications to patients.
type Notifier interface {
	NotifyClaim(ctx context.Context, patientEmail, professionalUsername string, request *model.Request) error
}

type emailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailNotifier builds an SMTP-backed notifier. An empty host yields
// a no-op notifier so claim processing never depends on mail delivery.
func NewEmailNotifier(cfg config.SMTPConfig) Notifier {
	if cfg.Host == "" {
		return noopNotifier{}
	}
	return &emailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (n *emailNotifier) NotifyClaim(_ context.Context, patientEmail, professionalUsername string, request *model.Request) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", patientEmail)
	m.SetHeader("Subject", fmt.Sprintf("La tua richiesta #%d è stata presa in carico", request.ID))
	m.SetBody("text/plain", fmt.Sprintf(
		"La tua richiesta di %s è stata presa in carico da %s. Puoi contattarlo nella chat dedicata.",
		request.Category, professionalUsername,
	))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send claim notification: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyClaim(context.Context, string, string, *model.Request) error {
	return nil
}
