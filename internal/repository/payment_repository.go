package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/gig-marketplace/internal/model"
)

const paymentColumns = `id, task_application_id, amount, payment_status, transaction_id, payment_method, created_at`

func scanPayment(s scanner) (*model.Payment, error) {
	p := new(model.Payment)
	if err := s.Scan(&p.ID, &p.TaskApplicationID, &p.Amount, &p.PaymentStatus, &p.TransactionID, &p.PaymentMethod, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// PaymentRelations selects which associations List loads.
type PaymentRelations struct {
	TaskApplication bool
}

// PaymentRepo persists payment records.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts p with status pending.  An application may have only one
// payment (conflict on task_application_id) and transaction ids are unique.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	p.ID = newID()
	p.CreatedAt = now()
	if p.PaymentStatus == "" {
		p.PaymentStatus = model.PaymentPending
	}
	const q = `INSERT INTO payments (id, task_application_id, amount, payment_status, transaction_id, payment_method, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.TaskApplicationID, p.Amount, p.PaymentStatus, p.TransactionID, p.PaymentMethod, p.CreatedAt)
	return writeErr(KindPayment, err, ErrTaskApplicationNotFound)
}

// List returns every payment.  The slice is never nil.
func (r *PaymentRepo) List(ctx context.Context, rel PaymentRelations) ([]*model.Payment, error) {
	items, err := queryAll(ctx, r.db, scanPayment, "SELECT "+paymentColumns+" FROM payments ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	if rel.TaskApplication && len(items) > 0 {
		ids := make([]string, len(items))
		for i, p := range items {
			ids[i] = p.TaskApplicationID
		}
		apps, err := queryIn(ctx, r.db, scanTaskApplication, "SELECT "+taskApplicationColumns+" FROM task_applications WHERE id", ids, "")
		if err != nil {
			return nil, err
		}
		byID := make(map[string]*model.TaskApplication, len(apps))
		for _, a := range apps {
			byID[a.ID] = a
		}
		for _, p := range items {
			p.TaskApplication = byID[p.TaskApplicationID]
		}
	}
	return items, nil
}

func paymentsByApplicationID(ctx context.Context, db DBTX, appIDs []string) (map[string]*model.Payment, error) {
	items, err := queryIn(ctx, db, scanPayment, "SELECT "+paymentColumns+" FROM payments WHERE task_application_id", appIDs, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Payment, len(items))
	for _, p := range items {
		out[p.TaskApplicationID] = p
	}
	return out, nil
}
