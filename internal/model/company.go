package model

import "time"

// Company posts tasks.  It corresponds to a row in the `companies` table.
type Company struct {
	ID           string    `json:"id"`            // companies.id
	CompanyName  string    `json:"company_name"`  // companies.company_name
	ContactEmail string    `json:"contact_email"` // companies.contact_email, unique
	ContactPhone string    `json:"contact_phone"` // companies.contact_phone
	Address      string    `json:"address"`       // companies.address
	CreatedAt    time.Time `json:"created_at"`    // companies.created_at

	Tasks []Task `json:"tasks,omitempty"`
}
