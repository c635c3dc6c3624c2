package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/climasite/backend/internal/models"
)

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Thank you for your order</h2>
  <p>Hi {{.Order.ShippingAddr.FirstName}}, we received your order <strong>{{.Order.OrderNumber}}</strong>.</p>
  <table cellpadding="6" cellspacing="0" border="0">
    {{range .Order.Items}}
    <tr>
      <td>{{.ProductName}}{{if .VariantName}} ({{.VariantName}}){{end}}</td>
      <td>x{{.Quantity}}</td>
      <td align="right">{{.LineTotal}} {{$.Order.Currency}}</td>
    </tr>
    {{end}}
    <tr><td colspan="2">Shipping ({{.Order.ShippingMethod}})</td><td align="right">{{.Order.ShippingCost}} {{.Order.Currency}}</td></tr>
    {{if not .Order.TaxAmount.IsZero}}<tr><td colspan="2">Tax</td><td align="right">{{.Order.TaxAmount}} {{.Order.Currency}}</td></tr>{{end}}
    <tr><td colspan="2"><strong>Total</strong></td><td align="right"><strong>{{.Order.Total}} {{.Order.Currency}}</strong></td></tr>
  </table>
  <p>We will let you know as soon as your order ships.</p>
</body>
</html>`))

var orderShippedTmpl = template.Must(template.New("order_shipped").Parse(`
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Your order is on its way</h2>
  <p>Hi {{.Order.ShippingAddr.FirstName}}, order <strong>{{.Order.OrderNumber}}</strong> has shipped.</p>
  {{if .Order.TrackingNumber}}<p>Tracking number: <strong>{{.Order.TrackingNumber}}</strong></p>{{end}}
  <p>Shipping to: {{.Order.ShippingAddr.AddressLine1}}, {{.Order.ShippingAddr.City}}, {{.Order.ShippingAddr.Country}}</p>
</body>
</html>`))

type mailData struct {
	Order *models.Order
}

// RenderOrderConfirmation builds the order-confirmation message.
func RenderOrderConfirmation(order *models.Order) (subject, body string, err error) {
	subject = fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	body, err = render(orderConfirmationTmpl, mailData{Order: order})
	return subject, body, err
}

// RenderOrderShipped builds the shipment notification.
func RenderOrderShipped(order *models.Order) (subject, body string, err error) {
	subject = fmt.Sprintf("Order %s shipped", order.OrderNumber)
	body, err = render(orderShippedTmpl, mailData{Order: order})
	return subject, body, err
}

func render(tmpl *template.Template, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
