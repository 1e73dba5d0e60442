package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to {{.Sender}}!</h2>
			<p>Your account for {{.Email}} is ready.</p>
			<p>Finish your profile to unlock your class dashboard:</p>
			<a href="{{.Link}}" style="background-color: #1976d2; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Set up my profile</a>
		</div>
`))

func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

// RenderWelcome builds the HTML body of the sign-up email.
func RenderWelcome(sender, email, clientURL string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, map[string]string{
		"Sender": sender,
		"Email":  email,
		"Link":   clientURL + "/profile-setup",
	})
	return buf.String(), err
}

func (s *emailService) SendWelcome(toEmail string) error {
	if s.dialer.Host == "" {
		log.Printf("[MAILER] SMTP not configured, skipping welcome email for %s", toEmail)
		return nil
	}

	body, err := RenderWelcome(s.senderName, toEmail, s.clientURL)
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to "+s.senderName)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("[MAILER ERROR] Failed to send welcome email to %s: %v", toEmail, err)
		return err
	}

	log.Printf("[MAILER] Welcome email sent to %s", toEmail)
	return nil
}
