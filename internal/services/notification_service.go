// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"

	mailjet "github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cacho-medina/luxbuy-back/internal/config"
	"github.com/cacho-medina/luxbuy-back/internal/models"
)

// NotificationService sends transactional email through Mailjet. Every send
// is best effort: failures are logged and never propagated into the
// workflow that triggered them.
type NotificationService struct {
	client *mailjet.Client
	config *config.Config
}

func NewNotificationService(config *config.Config) *NotificationService {
	svc := &NotificationService{config: config}

	if config.Mailjet.APIKey != "" {
		svc.client = mailjet.NewMailjetClient(config.Mailjet.APIKey, config.Mailjet.SecretKey)
	}

	return svc
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h2>¡Bienvenido a {{.AppName}}, {{.Name}}!</h2>
<p>Tu cuenta fue creada con el email <strong>{{.Email}}</strong>.</p>
<p>Ya podés ingresar desde <a href="{{.LoginURL}}">{{.LoginURL}}</a>.</p>
`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<h2>Restablecimiento de contraseña</h2>
<p>Hola {{.Name}}, un administrador restableció tu contraseña.</p>
<p>Tu contraseña temporal es: <strong>{{.Password}}</strong></p>
<p>Cambiala después de ingresar en <a href="{{.LoginURL}}">{{.LoginURL}}</a>.</p>
`))

var orderTemplate = template.Must(template.New("order").Parse(`
<h2>Gracias por tu compra, {{.Name}}</h2>
<p>Tu orden <strong>{{.OrderID}}</strong> fue registrada correctamente.</p>
<table border="0" cellpadding="4">
{{range .Items}}<tr><td>{{.Name}}</td><td>x{{.Quantity}}</td><td>${{.UnitPrice}}</td></tr>
{{end}}</table>
<p>Total: <strong>${{.Total}}</strong></p>
`))

func (s *NotificationService) SendWelcomeEmail(user *models.User) {
	data := map[string]interface{}{
		"AppName":  s.config.Mailjet.FromName,
		"Name":     user.Name,
		"Email":    user.Email,
		"LoginURL": s.config.Frontend.BaseURL + "/login",
	}

	s.send(user.Email, user.Name, "¡Bienvenido a "+s.config.Mailjet.FromName+"!", welcomeTemplate, data)
}

func (s *NotificationService) SendPasswordReset(user *models.User, temporaryPassword string) {
	data := map[string]interface{}{
		"Name":     user.Name,
		"Password": temporaryPassword,
		"LoginURL": s.config.Frontend.BaseURL + "/login",
	}

	s.send(user.Email, user.Name, "Restablecimiento de contraseña", passwordResetTemplate, data)
}

type orderEmailItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (s *NotificationService) SendOrderConfirmation(user *models.User, order *models.Order) {
	items := make([]orderEmailItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderEmailItem{
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	data := map[string]interface{}{
		"Name":    user.Name,
		"OrderID": order.ID.String(),
		"Items":   items,
		"Total":   order.Total,
	}

	s.send(user.Email, user.Name, "Confirmación de tu compra", orderTemplate, data)
}

func (s *NotificationService) send(toEmail, toName, subject string, tmpl *template.Template, data interface{}) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		logrus.WithError(err).WithField("to", toEmail).Error("failed to render email template")
		return
	}

	if s.client == nil {
		logrus.WithFields(logrus.Fields{
			"to":      toEmail,
			"subject": subject,
		}).Info("mailjet not configured, skipping email")
		return
	}

	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: s.config.Mailjet.FromEmail,
					Name:  s.config.Mailjet.FromName,
				},
				To: &mailjet.RecipientsV31{
					{Email: toEmail, Name: toName},
				},
				Subject:  subject,
				HTMLPart: body.String(),
				TextPart: fmt.Sprintf("%s\n\n%s", subject, s.config.Frontend.BaseURL),
			},
		},
	}

	if _, err := s.client.SendMailV31(&messages); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"to":      toEmail,
			"subject": subject,
		}).Error("failed to send email")
		return
	}

	logrus.WithFields(logrus.Fields{
		"to":      toEmail,
		"subject": subject,
	}).Info("email sent")
}
