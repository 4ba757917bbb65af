package email

import (
	"fmt"
	"html"

	"funnelgate/internal/config"
	"funnelgate/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .value { color: #6b7280; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// EmailCaptured builds the notification sent to admins when a prelanding
// form is submitted.
func (t *Templates) EmailCaptured(capture *models.EmailCapture, prelanding *models.Prelanding) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] New email capture: %s", t.cfg.SiteTitle, capture.Email)

	content := fmt.Sprintf(`
        <p>A visitor submitted their email on a prelanding page.</p>
        <div class="info-box">
            <p><span class="label">Email:</span> <span class="value">%s</span></p>
            <p><span class="label">Prelanding:</span> <span class="value">%s</span></p>
            <p><span class="label">Destination:</span> <span class="value">%s</span></p>
        </div>`,
		html.EscapeString(capture.Email),
		html.EscapeString(prelanding.Title),
		html.EscapeString(capture.Destination),
	)
	htmlBody = t.baseHTML("New email capture", content)

	textBody = fmt.Sprintf(
		"A visitor submitted their email on a prelanding page.\n\nEmail: %s\nPrelanding: %s\nDestination: %s\n",
		capture.Email, prelanding.Title, capture.Destination,
	)
	return subject, htmlBody, textBody
}
