package email

import (
	"log"
	"strings"

	"funnelgate/internal/config"
	"funnelgate/internal/models"
)

// Notifier sends email notifications for funnel events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifyEmailCaptured notifies the configured admin addresses that a
// prelanding form was submitted. Fire-and-forget; never blocks the visitor.
func (n *Notifier) NotifyEmailCaptured(capture *models.EmailCapture, prelanding *models.Prelanding) {
	if !n.service.IsEnabled() || !n.cfg.NotifyCapture {
		return
	}

	recipients := n.adminRecipients()
	if len(recipients) == 0 {
		log.Println("No admin emails configured for capture notification")
		return
	}

	subject, htmlBody, textBody := n.templates.EmailCaptured(capture, prelanding)
	n.service.SendAsync(recipients, subject, htmlBody, textBody)
}

// adminRecipients parses the comma-separated ADMIN_EMAILS setting.
func (n *Notifier) adminRecipients() []string {
	var recipients []string
	for _, addr := range strings.Split(n.cfg.AdminEmails, ",") {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
