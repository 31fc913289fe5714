package services

import (
	"abadas_server/lib"
	"abadas_server/structs"
	"abadas_server/structs/tables"
	"bytes"
	"html/template"
	"strconv"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

// EmailService sends the three order emails: the customer receipt, the
// back-office notification, and the fulfillment decision. It satisfies
// OrderNotifier; sends are best-effort and failures only get logged.
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

type orderEmailData struct {
	Order       *tables.Order
	Items       template.HTML
	AmountTotal string
	StatusTitle string
	StatusLine  string
}

var orderPlacedTmpl = template.Must(template.New("order_placed").Parse(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1a1a1a; color: white; padding: 20px; text-align: center; }
		.content { padding: 20px; background-color: #f9f9f9; }
		.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Thank you for your order!</h1>
		</div>
		<div class="content">
			<p>Hi {{.Order.Name}},</p>
			<p>We received your order <strong>#{{.Order.OrderID}}</strong> and will confirm it shortly.</p>
			<p><strong>Order total:</strong> ${{.AmountTotal}}</p>
			<p><strong>Payment method:</strong> {{.Order.PaymentStatus}}</p>
			<h3>Items</h3>
			{{.Items}}
			<h3>Shipping to</h3>
			<p>
				{{.Order.Address1}}<br>
				{{if .Order.Address2}}{{.Order.Address2}}<br>{{end}}
				{{.Order.City}}, {{.Order.State}} {{.Order.ZipCode}}
			</p>
		</div>
		<div class="footer">
			<p>You will receive another email once your order is confirmed.</p>
		</div>
	</div>
</body>
</html>`))

var adminNewOrderTmpl = template.Must(template.New("admin_new_order").Parse(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<h2>New order #{{.Order.OrderID}}</h2>
	<p><strong>Customer:</strong> {{.Order.Name}} ({{.Order.Email}}, {{.Order.Phone}})</p>
	<p><strong>Total:</strong> ${{.AmountTotal}}</p>
	<p><strong>Payment:</strong> {{.Order.PaymentStatus}}{{if .Order.PayIDProofURL}} &mdash; <a href="{{.Order.PayIDProofURL}}">payment proof</a>{{end}}</p>
	<p><strong>Shipping:</strong> {{.Order.ShippingMethod}}</p>
	<h3>Items</h3>
	{{.Items}}
	<h3>Address</h3>
	<p>
		{{.Order.Address1}}<br>
		{{if .Order.Address2}}{{.Order.Address2}}<br>{{end}}
		{{.Order.City}}, {{.Order.State}} {{.Order.ZipCode}}
	</p>
</body>
</html>`))

var statusChangedTmpl = template.Must(template.New("status_changed").Parse(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1a1a1a; color: white; padding: 20px; text-align: center; }
		.content { padding: 20px; background-color: #f9f9f9; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>{{.StatusTitle}}</h1>
		</div>
		<div class="content">
			<p>Hi {{.Order.Name}},</p>
			<p>{{.StatusLine}}</p>
			<p><strong>Order:</strong> #{{.Order.OrderID}}</p>
			<p><strong>Total:</strong> ${{.AmountTotal}}</p>
			<h3>Items</h3>
			{{.Items}}
		</div>
	</div>
</body>
</html>`))

func (es *EmailService) render(tmpl *template.Template, order *tables.Order, title, line string) (string, error) {
	data := orderEmailData{
		Order:       order,
		Items:       order.FormattedItems(),
		AmountTotal: lib.FormatCents(order.AmountCents),
		StatusTitle: title,
		StatusLine:  line,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OrderPlaced emails the customer their order receipt.
func (es *EmailService) OrderPlaced(order *tables.Order) {
	body, err := es.render(orderPlacedTmpl, order, "", "")
	if err != nil {
		es.logger.Error("Failed to render order receipt email",
			gecho.Field("order_id", order.OrderID), gecho.Field("error", err))
		return
	}

	subject := "Your Abadas order #" + formatOrderID(order.OrderID)
	go func() {
		if err := es.SendEmail([]string{order.Email}, subject, body); err != nil {
			es.logger.Error("Failed to send order receipt",
				gecho.Field("order_id", order.OrderID), gecho.Field("error", err))
		}
	}()
}

// AdminNewOrder notifies the back-office address about a new order.
func (es *EmailService) AdminNewOrder(order *tables.Order) {
	body, err := es.render(adminNewOrderTmpl, order, "", "")
	if err != nil {
		es.logger.Error("Failed to render admin order email",
			gecho.Field("order_id", order.OrderID), gecho.Field("error", err))
		return
	}

	subject := "New order #" + formatOrderID(order.OrderID) + " placed"
	go func() {
		if err := es.SendEmail([]string{es.cfg.Email.AdminAddress}, subject, body); err != nil {
			es.logger.Error("Failed to send admin notification",
				gecho.Field("order_id", order.OrderID), gecho.Field("error", err))
		}
	}()
}

// OrderStatusChanged emails the customer the fulfillment decision. Called
// exactly once per decided order, from the status transition.
func (es *EmailService) OrderStatusChanged(order *tables.Order) {
	var title, line, subject string
	switch order.Status {
	case tables.OrderStatusConfirmed:
		title = "Your order is confirmed"
		line = "Great news! Your order has been confirmed and is being prepared for dispatch."
		subject = "Order #" + formatOrderID(order.OrderID) + " confirmed"
	case tables.OrderStatusRejected:
		title = "About your order"
		line = "Unfortunately we could not process your order. If you have already paid, a refund will be arranged. Please contact us if you have any questions."
		subject = "Order #" + formatOrderID(order.OrderID) + " update"
	default:
		return
	}

	body, err := es.render(statusChangedTmpl, order, title, line)
	if err != nil {
		es.logger.Error("Failed to render status email",
			gecho.Field("order_id", order.OrderID), gecho.Field("error", err))
		return
	}

	go func() {
		if err := es.SendEmail([]string{order.Email}, subject, body); err != nil {
			es.logger.Error("Failed to send status email",
				gecho.Field("order_id", order.OrderID), gecho.Field("error", err))
		}
	}()
}

func formatOrderID(id int64) string {
	return strconv.FormatInt(id, 10)
}
