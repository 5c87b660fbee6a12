package model

import "time"

// PaymentPending is the default payment_status.
const PaymentPending = "pending"

// Payment is the passive payout record of an application.  No gateway is
// involved; PaymentStatus is only ever written by clients of the API.
type Payment struct {
	ID                string    `json:"id"`                  // payments.id
	TaskApplicationID string    `json:"task_application_id"` // payments.task_application_id, unique
	Amount            float64   `json:"amount"`              // payments.amount
	PaymentStatus     string    `json:"payment_status"`      // payments.payment_status
	TransactionID     *string   `json:"transaction_id"`      // payments.transaction_id, unique
	PaymentMethod     *string   `json:"payment_method"`      // payments.payment_method
	CreatedAt         time.Time `json:"created_at"`          // payments.created_at

	TaskApplication *TaskApplication `json:"taskApplication,omitempty"`
}
