package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/gig-marketplace/internal/model"
)

const taskColumns = `id, company_id, title, job_role, offered_amount, location, location_coordinate,
	required_number_of_workers, status, expires_at, created_at`

func scanTask(s scanner) (*model.Task, error) {
	t := new(model.Task)
	var coord []byte
	err := s.Scan(&t.ID, &t.CompanyID, &t.Title, &t.JobRole, &t.OfferedAmount, &t.Location, &coord,
		&t.RequiredNumberOfWorkers, &t.Status, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.LocationCoordinate = json.RawMessage(coord)
	return t, nil
}

// TaskRelations selects which associations GetByID and List load.
type TaskRelations struct {
	Company      bool
	Applications bool
}

// TaskRepo persists tasks.
type TaskRepo struct{ db *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

// Create inserts t with status open unless t.Status is already set.  If the
// company disappeared after the caller checked it, ErrCompanyNotFound is
// returned.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	t.ID = newID()
	t.CreatedAt = now()
	if t.Status == "" {
		t.Status = model.TaskStatusOpen
	}
	const q = `INSERT INTO tasks (id, company_id, title, job_role, offered_amount, location, location_coordinate,
	                              required_number_of_workers, status, expires_at, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.CompanyID, t.Title, t.JobRole, t.OfferedAmount, t.Location,
		string(t.LocationCoordinate), t.RequiredNumberOfWorkers, t.Status, t.ExpiresAt, t.CreatedAt)
	return writeErr(KindTask, err, ErrCompanyNotFound)
}

// GetByID fetches a task.  It returns ErrTaskNotFound if no row is found.
func (r *TaskRepo) GetByID(ctx context.Context, id string, rel TaskRelations) (*model.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadTaskRelations(ctx, r.db, []*model.Task{t}, rel); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns every task.  The slice is never nil.
func (r *TaskRepo) List(ctx context.Context, rel TaskRelations) ([]*model.Task, error) {
	items, err := queryAll(ctx, r.db, scanTask, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	if err := loadTaskRelations(ctx, r.db, items, rel); err != nil {
		return nil, err
	}
	return items, nil
}

func tasksByID(ctx context.Context, db DBTX, ids []string) (map[string]*model.Task, error) {
	items, err := queryIn(ctx, db, scanTask, "SELECT "+taskColumns+" FROM tasks WHERE id", ids, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Task, len(items))
	for _, t := range items {
		out[t.ID] = t
	}
	return out, nil
}

func loadTaskRelations(ctx context.Context, db DBTX, tasks []*model.Task, rel TaskRelations) error {
	if len(tasks) == 0 {
		return nil
	}
	if rel.Company {
		ids := make([]string, len(tasks))
		for i, t := range tasks {
			ids[i] = t.CompanyID
		}
		companies, err := companiesByID(ctx, db, ids)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			t.Company = companies[t.CompanyID]
		}
	}
	if rel.Applications {
		ids := make([]string, len(tasks))
		for i, t := range tasks {
			ids[i] = t.ID
		}
		byTask, err := applicationsGroupedBy(ctx, db, "task_id", ids)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			t.Applications = byTask[t.ID]
		}
	}
	return nil
}
