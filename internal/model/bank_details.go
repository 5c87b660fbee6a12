package model

import "time"

// BankDetails holds the payout account of a user.  A user owns at most one
// row (bank_details.user_id is unique) and creating it is what moves the
// user from personal-info-done to bank-info-done.
type BankDetails struct {
	ID            string    `json:"id"`             // bank_details.id
	UserID        string    `json:"user_id"`        // bank_details.user_id, unique
	AccountNumber string    `json:"account_number"` // bank_details.account_number
	IFSCCode      string    `json:"ifsc_code"`      // bank_details.ifsc_code
	BankName      *string   `json:"bank_name"`      // bank_details.bank_name
	BranchName    *string   `json:"branch_name"`    // bank_details.branch_name
	CreatedAt     time.Time `json:"created_at"`     // bank_details.created_at

	User *User `json:"user,omitempty"`
}
