package model

import (
	"encoding/json"
	"time"
)

// TaskStatusOpen is the status of a freshly posted task.
const TaskStatusOpen = "open"

// Task is a unit of work posted by a company.  LocationCoordinate is kept as
// raw JSON so clients may send whatever geo payload they use.
type Task struct {
	ID                      string          `json:"id"`                         // tasks.id
	CompanyID               string          `json:"company_id"`                 // tasks.company_id
	Title                   string          `json:"title"`                      // tasks.title
	JobRole                 string          `json:"job_role"`                   // tasks.job_role
	OfferedAmount           float64         `json:"offered_amount"`             // tasks.offered_amount
	Location                string          `json:"location"`                   // tasks.location
	LocationCoordinate      json.RawMessage `json:"location_coordinate"`        // tasks.location_coordinate
	RequiredNumberOfWorkers int             `json:"required_number_of_workers"` // tasks.required_number_of_workers
	Status                  string          `json:"status"`                     // tasks.status
	ExpiresAt               *time.Time      `json:"expires_at"`                 // tasks.expires_at (nullable)
	CreatedAt               time.Time       `json:"created_at"`                 // tasks.created_at

	Company      *Company          `json:"company,omitempty"`
	Applications []TaskApplication `json:"applications,omitempty"`
}
