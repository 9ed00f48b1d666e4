// Package notify delivers order status changes to the participants involved. Events
// are queued by a Dispatcher and handed to one Publisher: RabbitMQ, Google Pub/Sub or
// the log.
package notify

import (
	"encoding/json"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"

	"github.com/pkg/errors"
)

// Message is the wire form of one notification.
type Message struct {
	OrderID     string    `json:"orderId"`
	CustomerID  string    `json:"customerId"`
	VendorID    string    `json:"vendorId"`
	DriverID    string    `json:"driverId,omitempty"`
	Method      string    `json:"method"`
	Disposition string    `json:"disposition"`
	Recipient   string    `json:"recipient"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func NewMessage(event ports.OrderEvent, recipient participant.Role) Message {
	m := Message{
		OrderID:     event.OrderID.String(),
		CustomerID:  event.CustomerID.String(),
		VendorID:    event.VendorID.String(),
		Method:      event.Method.String(),
		Disposition: event.Disposition.String(),
		Recipient:   recipient.String(),
		OccurredAt:  event.OccurredAt,
	}
	if event.DriverID != nil {
		m.DriverID = event.DriverID.String()
	}
	return m
}

// RoutingKey reads "order.<disposition>.<recipient>", e.g. "order.ready.driver".
func (m Message) RoutingKey() string {
	return strings.ToLower("order." + m.Disposition + "." + m.Recipient)
}

// Attributes are the message headers brokers can filter on.
func (m Message) Attributes() map[string]string {
	return map[string]string{
		"order_id":    m.OrderID,
		"disposition": m.Disposition,
		"recipient":   m.Recipient,
	}
}

func (m Message) Encode() ([]byte, error) {
	body, err := json.Marshal(m)
	return body, errors.WithStack(err)
}
