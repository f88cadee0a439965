// Package service wires the pure cart, shipping and checkout rules to the stores and
// the notification queue. Handlers talk to these types only.
package service

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("foodies-api/service")

// Customer is the authenticated caller as the services see it.
type Customer struct {
	ID    string
	Email string
	Name  string
	Admin bool
}
