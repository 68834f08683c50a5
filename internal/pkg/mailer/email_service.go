package mailer

import (
	"fmt"
	"strings"

	"school-mgmt-be/internal/entity"

	"gopkg.in/gomail.v2"
)

// IEmailService sends billing mail to tenant admins.
type IEmailService interface {
	SendInvoice(to string, tenantName string, invoice *entity.Invoice) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(host string, port int, user, password, from string) IEmailService {
	return &emailService{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *emailService) SendInvoice(to string, tenantName string, invoice *entity.Invoice) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Invoice %s", invoice.Number))
	m.SetBody("text/html", renderInvoiceBody(tenantName, invoice))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invoice %s to %s: %w", invoice.Number, to, err)
	}
	return nil
}

func renderInvoiceBody(tenantName string, invoice *entity.Invoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Invoice %s</h2>", invoice.Number)
	fmt.Fprintf(&b, "<p>Hello %s,</p>", tenantName)
	fmt.Fprintf(&b, "<p>Billing period %s to %s.</p>",
		invoice.BillingPeriodStart.Format("2 Jan 2006"),
		invoice.BillingPeriodEnd.Format("2 Jan 2006"))

	b.WriteString("<table border=\"1\" cellpadding=\"6\"><tr><th>Description</th><th>Units</th><th>Unit price</th><th>Amount</th></tr>")
	for _, item := range invoice.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%.2f</td><td>%.2f</td></tr>",
			item.Description, item.Units, item.UnitPrice, item.Amount)
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p>Subtotal: %.2f<br>Tax: %.2f<br><strong>Total: %.2f</strong></p>",
		invoice.Subtotal, invoice.TaxAmount, invoice.Total)
	fmt.Fprintf(&b, "<p>Due date: %s</p>", invoice.DueDate.Format("2 Jan 2006"))
	return b.String()
}
