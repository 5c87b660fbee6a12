package model

import "time"

// Application states.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// TaskApplication links a user to a task they applied for.
type TaskApplication struct {
	ID        string    `json:"id"`         // task_applications.id
	TaskID    string    `json:"task_id"`    // task_applications.task_id
	UserID    string    `json:"user_id"`    // task_applications.user_id
	Status    string    `json:"status"`     // task_applications.status
	AppliedAt time.Time `json:"applied_at"` // task_applications.applied_at

	User    *User    `json:"user,omitempty"`
	Task    *Task    `json:"task,omitempty"`
	Payment *Payment `json:"payment,omitempty"`
}
