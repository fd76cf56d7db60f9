package mailer

import (
	"fmt"

	"github.com/William2897/aoy-registration-form/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends the confirmation message after a registration is persisted.
// Failures must be logged by the caller, never bubbled into the submission
// response.
type Mailer interface {
	SendConfirmation(reg *models.Registration) error
}

// SendgridMailer sends confirmation emails through SendGrid.
type SendgridMailer struct {
	client     *sendgrid.Client
	fromEmail  string
	fromName   string
	eventName  string
	eventDates string
	eventVenue string
}

func NewSendgridMailer(apiKey, fromEmail, fromName, eventName, eventDates, eventVenue string) *SendgridMailer {
	return &SendgridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		fromEmail:  fromEmail,
		fromName:   fromName,
		eventName:  eventName,
		eventDates: eventDates,
		eventVenue: eventVenue,
	}
}

func (m *SendgridMailer) SendConfirmation(reg *models.Registration) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(reg.FullName, reg.Email)
	subject := fmt.Sprintf("%s Registration Confirmation", m.eventName)

	plain := m.plainBody(reg)
	html := m.htmlBody(reg)

	resp, err := m.client.Send(mail.NewSingleEmail(from, subject, to, plain, html))
	if err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send confirmation email: sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

func (m *SendgridMailer) plainBody(reg *models.Registration) string {
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for registering for %s (%s, %s).\n\nRegistration ID: %s\n\n",
		reg.FullName, m.eventName, m.eventDates, m.eventVenue, reg.ID,
	)
	body += "Price Breakdown\n"
	body += fmt.Sprintf("Base Price: %s\n", formatMYR(reg.BasePrice))
	if reg.HasFamily {
		body += fmt.Sprintf("Family Members: %s\n", formatMYR(reg.FamilyTotal))
	}
	if reg.OrderTshirt {
		body += fmt.Sprintf("T-Shirts: %s\n", formatMYR(reg.TshirtTotal))
	}
	body += fmt.Sprintf("Subtotal: %s\n", formatMYR(reg.Subtotal))
	if reg.Discount > 0 {
		body += fmt.Sprintf("Early Bird Discount: -%s\n", formatMYR(reg.Discount))
	}
	if reg.FamilyDiscount > 0 {
		body += fmt.Sprintf("Family Discount: -%s\n", formatMYR(reg.FamilyDiscount))
	}
	body += fmt.Sprintf("Total: %s\n", formatMYR(reg.FinalTotal))
	body += "\nWe look forward to seeing you there!\n"
	return body
}

func (m *SendgridMailer) htmlBody(reg *models.Registration) string {
	rows := fmt.Sprintf("<tr><td>Base Price</td><td>%s</td></tr>", formatMYR(reg.BasePrice))
	if reg.HasFamily {
		rows += fmt.Sprintf("<tr><td>Family Members</td><td>%s</td></tr>", formatMYR(reg.FamilyTotal))
	}
	if reg.OrderTshirt {
		rows += fmt.Sprintf("<tr><td>T-Shirts</td><td>%s</td></tr>", formatMYR(reg.TshirtTotal))
	}
	rows += fmt.Sprintf("<tr><td>Subtotal</td><td>%s</td></tr>", formatMYR(reg.Subtotal))
	if reg.Discount > 0 {
		rows += fmt.Sprintf("<tr><td>Early Bird Discount</td><td>-%s</td></tr>", formatMYR(reg.Discount))
	}
	if reg.FamilyDiscount > 0 {
		rows += fmt.Sprintf("<tr><td>Family Discount</td><td>-%s</td></tr>", formatMYR(reg.FamilyDiscount))
	}
	rows += fmt.Sprintf("<tr><td><strong>Total</strong></td><td><strong>%s</strong></td></tr>", formatMYR(reg.FinalTotal))

	return fmt.Sprintf(`<html><body>
<h1>%s Registration Confirmation</h1>
<p>Dear %s,</p>
<p>Thank you for registering for %s (%s, %s).</p>
<p>Registration ID: <strong>%s</strong></p>
<h2>Price Breakdown</h2>
<table>%s</table>
<p>We look forward to seeing you there!</p>
</body></html>`,
		m.eventName, reg.FullName, m.eventName, m.eventDates, m.eventVenue, reg.ID, rows)
}

func formatMYR(amount float64) string {
	return fmt.Sprintf("RM %.2f", amount)
}
