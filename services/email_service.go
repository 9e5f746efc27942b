package services

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"marketplace/config"
)

// Mailer sends transactional mail.
type Mailer interface {
	SendWelcome(toEmail, name string, category string) error
}

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(cfg config.SMTP) (*EmailService, error) {
	if !cfg.Enabled() {
		return nil, errors.New("SMTP configuration missing")
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	return &EmailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   from,
	}, nil
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
        <h2 style="color: #333;">Welcome, {{.Name}}!</h2>
        <p>Your {{.Category}} account is ready.</p>
        {{if eq .Category "Seller"}}<p>Start listing items from your dashboard.</p>{{else}}<p>Browse the catalog and fill your cart.</p>{{end}}
        <p style="color: #666; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>
`))

func renderWelcome(name, category string) (string, error) {
	var b strings.Builder
	err := welcomeTemplate.Execute(&b, struct{ Name, Category string }{name, category})
	return b.String(), err
}

func (s *EmailService) SendWelcome(toEmail, name string, category string) error {
	body, err := renderWelcome(name, category)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to the marketplace")
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
