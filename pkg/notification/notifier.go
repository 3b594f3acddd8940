// Package notification delivers the best-effort welcome notification sent
// after a registration saga reaches a committed or partially committed
// outcome. Delivery failures are logged and never influence the saga's
// decision.
package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

// Notification is a single message to deliver.
type Notification struct {
	To      string            // Recipient identifier (e.g., email address)
	Subject string            // Optional: subject for notifications like email
	Body    string            // The content or message to send
	Data    map[string]string // Additional metadata
}

// Notifier sends a notification over one delivery system.
type Notifier interface {
	Send(notification Notification) error
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.Name}},</p>
<p>Your account <b>{{.Username}}</b> has been created.</p>
<p>You can now sign in with your email address {{.Email}}.</p>`))

// WelcomeNotification builds the welcome message for a freshly registered
// account.
func WelcomeNotification(email, username, displayName string) (Notification, error) {
	name := displayName
	if name == "" {
		name = username
	}

	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, map[string]string{
		"Name":     name,
		"Username": username,
		"Email":    email,
	}); err != nil {
		return Notification{}, fmt.Errorf("failed to render welcome template: %w", err)
	}

	return Notification{
		To:      email,
		Subject: "Welcome aboard",
		Body:    buf.String(),
	}, nil
}
