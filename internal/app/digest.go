// internal/app/digest.go
package app

import (
	"fmt"
	"html/template"
	"strings"

	"qr_order_system/internal/domain/order"
)

// digestTemplate renders the procurement digest body. The wording and shape
// are what vendors have been receiving all along: greeting, a plain list of
// product name + requested quantity, sign-off.
var digestTemplate = template.Must(template.New("digest").Parse(
	`<p>Hello {{.VendorName}},</p>
<p>Here is a list of items we would like to procure from you:</p>
<ul>{{range .Items}}<li>{{.Name}} (Qty: {{.Quantity}})</li>{{end}}</ul>
<p>Regards,<br>Purchasing<br>Front Office</p>`))

type digestItem struct {
	Name     string
	Quantity int
}

// RenderDigestHTML builds the digest email body for one vendor's pending
// orders.
func RenderDigestHTML(vendorName string, orders []*order.Order) (string, error) {
	items := make([]digestItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, digestItem{Name: o.ProductName, Quantity: o.OrderQuantity})
	}

	var b strings.Builder
	err := digestTemplate.Execute(&b, struct {
		VendorName string
		Items      []digestItem
	}{VendorName: vendorName, Items: items})
	if err != nil {
		return "", fmt.Errorf("error rendering digest template: %w", err)
	}
	return b.String(), nil
}
