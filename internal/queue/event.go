// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QueueName is the durable queue every domain event is published to.  The
// event kind travels in the AMQP Type property.
const QueueName = "gig.events"

// Event kinds.
const (
	TypeRegistrationAdvanced   = "user.registration_advanced"
	TypeTaskApplicationCreated = "task_application.created"
	TypePaymentCreated         = "payment.created"
)

// Event is a payload that knows its kind.
type Event interface {
	EventType() string
}

// RegistrationAdvanced is published whenever a user's registration status
// moves forward.
type RegistrationAdvanced struct {
	UserID     string `json:"user_id"`
	Transition string `json:"transition"`
	From       int    `json:"from"`
	To         int    `json:"to"`
	OccurredAt string `json:"occurred_at"`
}

func (RegistrationAdvanced) EventType() string { return TypeRegistrationAdvanced }

// TaskApplicationCreated is published when a worker applies to a task.
type TaskApplicationCreated struct {
	ApplicationID string `json:"application_id"`
	TaskID        string `json:"task_id"`
	UserID        string `json:"user_id"`
	Status        string `json:"status"`
	AppliedAt     string `json:"applied_at"`
}

func (TaskApplicationCreated) EventType() string { return TypeTaskApplicationCreated }

// PaymentCreated is published when a payment record is created.
type PaymentCreated struct {
	PaymentID         string  `json:"payment_id"`
	TaskApplicationID string  `json:"task_application_id"`
	Amount            float64 `json:"amount"`
	PaymentStatus     string  `json:"payment_status"`
	TransactionID     string  `json:"transaction_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func (PaymentCreated) EventType() string { return TypePaymentCreated }

// FormatLine renders one event as a single human-friendly log line.  typ is
// the AMQP Type of the delivery.
func FormatLine(typ string, body []byte) (string, error) {
	switch typ {
	case TypeRegistrationAdvanced:
		var ev RegistrationAdvanced
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", typ, err)
		}
		return fmt.Sprintf("[%s] Registration advanced | user_id=%s | transition=%s | from=%d | to=%d\n",
			ev.OccurredAt, ev.UserID, ev.Transition, ev.From, ev.To), nil
	case TypeTaskApplicationCreated:
		var ev TaskApplicationCreated
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", typ, err)
		}
		return fmt.Sprintf("[%s] Task application created | application_id=%s | task_id=%s | user_id=%s | status=%s\n",
			ev.AppliedAt, ev.ApplicationID, ev.TaskID, ev.UserID, ev.Status), nil
	case TypePaymentCreated:
		var ev PaymentCreated
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", typ, err)
		}
		txn := ev.TransactionID
		if txn == "" {
			txn = "-"
		}
		return fmt.Sprintf("[%s] Payment created | payment_id=%s | task_application_id=%s | amount=%.2f | status=%s | transaction_id=%s\n",
			ev.CreatedAt, ev.PaymentID, ev.TaskApplicationID, ev.Amount, ev.PaymentStatus, txn), nil
	}
	return "", fmt.Errorf("unknown event type %q", strings.TrimSpace(typ))
}
