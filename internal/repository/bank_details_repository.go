package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/gig-marketplace/internal/model"
	"github.com/iliyamo/gig-marketplace/internal/registration"
)

const bankDetailsColumns = `id, user_id, account_number, ifsc_code, bank_name, branch_name, created_at`

func scanBankDetails(s scanner) (*model.BankDetails, error) {
	b := new(model.BankDetails)
	if err := s.Scan(&b.ID, &b.UserID, &b.AccountNumber, &b.IFSCCode, &b.BankName, &b.BranchName, &b.CreatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

// BankDetailsRelations selects which associations List loads.
type BankDetailsRelations struct {
	User bool
}

// BankDetailsRepo persists payout accounts.
type BankDetailsRepo struct{ db *sql.DB }

func NewBankDetailsRepo(db *sql.DB) *BankDetailsRepo { return &BankDetailsRepo{db: db} }

// CreateAndAdvance inserts b and moves its user from status from to status
// to inside one transaction.  A second row for the same user yields a
// *ConflictError on user_id; a lost status race yields ErrStatusChanged and
// leaves no bank row behind.
func (r *BankDetailsRepo) CreateAndAdvance(ctx context.Context, b *model.BankDetails, from, to registration.Status) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	b.ID = newID()
	b.CreatedAt = now()
	const q = `INSERT INTO bank_details (id, user_id, account_number, ifsc_code, bank_name, branch_name, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err = tx.ExecContext(ctx, q, b.ID, b.UserID, b.AccountNumber, b.IFSCCode, b.BankName, b.BranchName, b.CreatedAt); err != nil {
		return writeErr(KindBankDetails, err, ErrUserNotFound)
	}
	if from != to {
		if err = advanceStatus(ctx, tx, b.UserID, from, to); err != nil {
			return err
		}
	}
	return nil
}

// List returns every bank details row.  The slice is never nil.
func (r *BankDetailsRepo) List(ctx context.Context, rel BankDetailsRelations) ([]*model.BankDetails, error) {
	items, err := queryAll(ctx, r.db, scanBankDetails, "SELECT "+bankDetailsColumns+" FROM bank_details ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	if rel.User && len(items) > 0 {
		ids := make([]string, len(items))
		for i, b := range items {
			ids[i] = b.UserID
		}
		users, err := usersByID(ctx, r.db, ids)
		if err != nil {
			return nil, err
		}
		for _, b := range items {
			b.User = users[b.UserID]
		}
	}
	return items, nil
}

func bankDetailsByUserID(ctx context.Context, db DBTX, userIDs []string) (map[string]*model.BankDetails, error) {
	items, err := queryIn(ctx, db, scanBankDetails, "SELECT "+bankDetailsColumns+" FROM bank_details WHERE user_id", userIDs, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.BankDetails, len(items))
	for _, b := range items {
		out[b.UserID] = b
	}
	return out, nil
}
