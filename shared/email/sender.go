package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"milwatch/shared/config"
)

// Sender delivers a published report by email. Email is a supplementary
// channel next to Telegram; callers treat failures as partial, not fatal.
type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// SendReport wraps the rendered report body in a minimal HTML shell and
// sends it to the configured recipient.
func (s *Sender) SendReport(subject, reportBody string) error {
	body, err := s.generateEmailBody(subject, reportBody)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}
	return s.sendViaSMTP(subject, body)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

func (s *Sender) generateEmailBody(subject, reportBody string) (string, error) {
	tmplStr := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2196F3; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; text-align: center; }
        pre { background-color: #f8f9fa; padding: 15px; border-radius: 8px; overflow-x: auto; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🛩️ {{.Subject}}</h1>
    </div>

    <pre>{{.Body}}</pre>

    <div class="footer">
        <p>Generated by the military flight watch</p>
    </div>
</body>
</html>
`

	tmpl, err := template.New("email").Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	data := struct {
		Subject string
		Body    string
	}{subject, reportBody}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
