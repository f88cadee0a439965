package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const confirmationHTML = `<h2>Thanks for your order, {{.Name}}!</h2>
<p>Tracking reference: <strong>{{.TrackingRef}}</strong></p>
<table>
{{range .Items}}<tr><td>{{.Name}}</td><td>× {{.Quantity}}</td><td>{{.LineTotal.StringFixed 2}}</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal.StringFixed 2}}<br>
Shipping: {{.ShippingFee.StringFixed 2}}<br>
<strong>Total: {{.Total.StringFixed 2}}</strong></p>
<p>Delivering to {{.Address.Street}}, {{.Address.City}}. Payment: {{.PaymentMethod}}.</p>
`

const confirmationText = `Thanks for your order, {{.Name}}!
Tracking reference: {{.TrackingRef}}
{{range .Items}}- {{.Name}} x {{.Quantity}}: {{.LineTotal.StringFixed 2}}
{{end}}
Subtotal: {{.Subtotal.StringFixed 2}}
Shipping: {{.ShippingFee.StringFixed 2}}
Total: {{.Total.StringFixed 2}}
Delivering to {{.Address.Street}}, {{.Address.City}}. Payment: {{.PaymentMethod}}.
`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(confirmationHTML))
	textTmpl = texttemplate.Must(texttemplate.New("confirmation.txt").Parse(confirmationText))
)

// RenderConfirmation turns an event into the customer's confirmation email.
func RenderConfirmation(ev OrderPlaced) (Message, error) {
	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, ev); err != nil {
		return Message{}, fmt.Errorf("rendering html: %w", err)
	}
	if err := textTmpl.Execute(&text, ev); err != nil {
		return Message{}, fmt.Errorf("rendering text: %w", err)
	}
	return Message{
		To:      ev.Email,
		ToName:  ev.Name,
		Subject: fmt.Sprintf("Your Foodies order %s", ev.TrackingRef),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
