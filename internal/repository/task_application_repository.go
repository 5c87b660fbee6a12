package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gig-marketplace/internal/model"
)

const taskApplicationColumns = `id, task_id, user_id, status, applied_at`

func scanTaskApplication(s scanner) (*model.TaskApplication, error) {
	a := new(model.TaskApplication)
	if err := s.Scan(&a.ID, &a.TaskID, &a.UserID, &a.Status, &a.AppliedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// TaskApplicationRelations selects which associations GetByID and List load.
type TaskApplicationRelations struct {
	User    bool
	Task    bool
	Payment bool
}

// TaskApplicationRepo persists applications of users to tasks.
type TaskApplicationRepo struct{ db *sql.DB }

func NewTaskApplicationRepo(db *sql.DB) *TaskApplicationRepo { return &TaskApplicationRepo{db: db} }

// Create inserts a pending application stamped with the current time.
// Callers check that both the task and the user exist beforehand; a
// foreign-key failure (a concurrent removal) is reported as ErrNotFound.
func (r *TaskApplicationRepo) Create(ctx context.Context, taskID, userID string) (*model.TaskApplication, error) {
	a := &model.TaskApplication{
		ID:        newID(),
		TaskID:    taskID,
		UserID:    userID,
		Status:    model.ApplicationPending,
		AppliedAt: now(),
	}
	const q = `INSERT INTO task_applications (id, task_id, user_id, status, applied_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, a.ID, a.TaskID, a.UserID, a.Status, a.AppliedAt); err != nil {
		return nil, writeErr(KindTaskApplication, err, ErrNotFound)
	}
	return a, nil
}

// GetByID fetches an application.  It returns ErrTaskApplicationNotFound
// if no row is found.
func (r *TaskApplicationRepo) GetByID(ctx context.Context, id string, rel TaskApplicationRelations) (*model.TaskApplication, error) {
	a, err := scanTaskApplication(r.db.QueryRowContext(ctx, "SELECT "+taskApplicationColumns+" FROM task_applications WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadTaskApplicationRelations(ctx, r.db, []*model.TaskApplication{a}, rel); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns every application.  The slice is never nil.
func (r *TaskApplicationRepo) List(ctx context.Context, rel TaskApplicationRelations) ([]*model.TaskApplication, error) {
	items, err := queryAll(ctx, r.db, scanTaskApplication, "SELECT "+taskApplicationColumns+" FROM task_applications ORDER BY applied_at, id")
	if err != nil {
		return nil, err
	}
	if err := loadTaskApplicationRelations(ctx, r.db, items, rel); err != nil {
		return nil, err
	}
	return items, nil
}

// applicationsGroupedBy loads applications whose column (user_id or
// task_id) is one of ids, grouped by that column.
func applicationsGroupedBy(ctx context.Context, db DBTX, column string, ids []string) (map[string][]model.TaskApplication, error) {
	if column != "user_id" && column != "task_id" {
		return nil, errors.New("applicationsGroupedBy: unsupported column " + column)
	}
	q := "SELECT " + taskApplicationColumns + " FROM task_applications WHERE " + column
	items, err := queryIn(ctx, db, scanTaskApplication, q, ids, " ORDER BY applied_at, id")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.TaskApplication)
	for _, a := range items {
		key := a.UserID
		if column == "task_id" {
			key = a.TaskID
		}
		out[key] = append(out[key], *a)
	}
	return out, nil
}

func loadTaskApplicationRelations(ctx context.Context, db DBTX, apps []*model.TaskApplication, rel TaskApplicationRelations) error {
	if len(apps) == 0 {
		return nil
	}
	userIDs := make([]string, len(apps))
	taskIDs := make([]string, len(apps))
	appIDs := make([]string, len(apps))
	for i, a := range apps {
		userIDs[i], taskIDs[i], appIDs[i] = a.UserID, a.TaskID, a.ID
	}
	if rel.User {
		users, err := usersByID(ctx, db, userIDs)
		if err != nil {
			return err
		}
		for _, a := range apps {
			a.User = users[a.UserID]
		}
	}
	if rel.Task {
		tasks, err := tasksByID(ctx, db, taskIDs)
		if err != nil {
			return err
		}
		for _, a := range apps {
			a.Task = tasks[a.TaskID]
		}
	}
	if rel.Payment {
		payments, err := paymentsByApplicationID(ctx, db, appIDs)
		if err != nil {
			return err
		}
		for _, a := range apps {
			a.Payment = payments[a.ID]
		}
	}
	return nil
}
