package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gig-marketplace/internal/model"
)

const companyColumns = `id, company_name, contact_email, contact_phone, address, created_at`

func scanCompany(s scanner) (*model.Company, error) {
	c := new(model.Company)
	if err := s.Scan(&c.ID, &c.CompanyName, &c.ContactEmail, &c.ContactPhone, &c.Address, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// CompanyRelations selects which associations GetByID and List load.
type CompanyRelations struct {
	Tasks bool
}

// CompanyRepo persists companies.
type CompanyRepo struct{ db *sql.DB }

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

// Create inserts c and fills its ID and CreatedAt.  A taken contact email
// yields a *ConflictError on contact_email.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	c.ID = newID()
	c.CreatedAt = now()
	const q = `INSERT INTO companies (id, company_name, contact_email, contact_phone, address, created_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.CompanyName, c.ContactEmail, c.ContactPhone, c.Address, c.CreatedAt)
	return writeErr(KindCompany, err, nil)
}

// GetByID fetches a company.  It returns ErrCompanyNotFound if no row is found.
func (r *CompanyRepo) GetByID(ctx context.Context, id string, rel CompanyRelations) (*model.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadCompanyRelations(ctx, r.db, []*model.Company{c}, rel); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every company.  The slice is never nil.
func (r *CompanyRepo) List(ctx context.Context, rel CompanyRelations) ([]*model.Company, error) {
	items, err := queryAll(ctx, r.db, scanCompany, "SELECT "+companyColumns+" FROM companies ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	if err := loadCompanyRelations(ctx, r.db, items, rel); err != nil {
		return nil, err
	}
	return items, nil
}

func companiesByID(ctx context.Context, db DBTX, ids []string) (map[string]*model.Company, error) {
	items, err := queryIn(ctx, db, scanCompany, "SELECT "+companyColumns+" FROM companies WHERE id", ids, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Company, len(items))
	for _, c := range items {
		out[c.ID] = c
	}
	return out, nil
}

func loadCompanyRelations(ctx context.Context, db DBTX, companies []*model.Company, rel CompanyRelations) error {
	if !rel.Tasks || len(companies) == 0 {
		return nil
	}
	ids := make([]string, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	tasks, err := queryIn(ctx, db, scanTask, "SELECT "+taskColumns+" FROM tasks WHERE company_id", ids, " ORDER BY created_at, id")
	if err != nil {
		return err
	}
	byCompany := make(map[string][]model.Task, len(companies))
	for _, t := range tasks {
		byCompany[t.CompanyID] = append(byCompany[t.CompanyID], *t)
	}
	for _, c := range companies {
		c.Tasks = byCompany[c.ID]
	}
	return nil
}
