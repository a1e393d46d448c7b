package sendGrid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	// ErrRejected means SendGrid refused the message (4xx); resending it unchanged will fail again.
	ErrRejected = errors.New("email rejected")
	// ErrUnavailable covers network failures and SendGrid 5xx responses.
	ErrUnavailable = errors.New("email service unavailable")
)

// Message is one transactional email. HTML is optional.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type EmailService interface {
	Send(ctx context.Context, msg *Message) error
}

type emailService struct {
	client *sendgrid.Client
	from   *mail.Email
}

type Option func(*sendgrid.Client)

// WithBaseURL sends to another endpoint, such as a test server.
func WithBaseURL(url string) Option {
	return func(c *sendgrid.Client) {
		c.Request.BaseURL = url
	}
}

func NewEmailService(apiKey string, fromEmail string, fromName string, opts ...Option) EmailService {
	client := sendgrid.NewSendClient(apiKey)

	for _, opt := range opts {
		opt(client)
	}

	return &emailService{client: client, from: mail.NewEmail(fromName, fromEmail)}
}

func (e *emailService) Send(ctx context.Context, msg *Message) error {

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", msg.To))
	personalization.Subject = msg.Subject

	message := mail.NewV3Mail()
	message.SetFrom(e.from)
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/plain", msg.Text))

	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	resp, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status code %d: %s", ErrRejected, resp.StatusCode, resp.Body)
	}

	return nil
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<p>Thank you for your order.</p>
<table>
{{- range .Products}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
{{- end}}
</table>
<p>Total charged: {{printf "%.2f" .Payment.Amount}} {{.Payment.Currency}}</p>
<p>Order {{.ID}}</p>`))

// OrderConfirmation renders the email sent to the buyer once an order is recorded.
// Item names come from the client's cart and are escaped in the HTML part.
func OrderConfirmation(to string, order *models.Order) (*Message, error) {

	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, order); err != nil {
		return nil, fmt.Errorf("failed to render confirmation: %w", err)
	}

	return &Message{
		To:      to,
		Subject: "Your order has been placed",
		Text: fmt.Sprintf("Thank you for your order %s. We charged %.2f %s and will let you know when it ships.",
			order.ID, order.Payment.Amount, order.Payment.Currency),
		HTML: html.String(),
	}, nil
}
