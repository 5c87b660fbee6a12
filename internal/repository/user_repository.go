package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/gig-marketplace/internal/model"
	"github.com/iliyamo/gig-marketplace/internal/registration"
)

const userColumns = `id, mobile_number, full_name, current_address, permanent_address, vehicle_details,
	aadhar_number, driving_license, pan_card, is_online, aadhar_front_url, aadhar_back_url, dl_url, pan_url,
	user_image_url, registration_status, qualification, languages, gender, created_at, updated_at`

func scanUser(s scanner) (*model.User, error) {
	u := new(model.User)
	err := s.Scan(&u.ID, &u.MobileNumber, &u.FullName, &u.CurrentAddress, &u.PermanentAddress, &u.VehicleDetails,
		&u.AadharNumber, &u.DrivingLicense, &u.PanCard, &u.IsOnline, &u.AadharFrontURL, &u.AadharBackURL, &u.DLURL, &u.PanURL,
		&u.UserImageURL, &u.RegistrationStatus, &u.Qualification, &u.Languages, &u.Gender, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserRelations selects which associations GetByID and List load.
type UserRelations struct {
	BankDetails      bool
	TaskApplications bool
}

// UserRepo persists users and performs their registration status writes.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the pool so callers can run health probes and transactions.
func (r *UserRepo) DB() *sql.DB { return r.db }

// Create inserts a user at registration status New.  A taken mobile number
// yields a *ConflictError with Field "mobile_number".
func (r *UserRepo) Create(ctx context.Context, mobileNumber string, fullName *string) (*model.User, error) {
	ts := now()
	u := &model.User{
		ID:                 newID(),
		MobileNumber:       strings.TrimSpace(mobileNumber),
		FullName:           fullName,
		RegistrationStatus: int(registration.New),
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
	const q = `INSERT INTO users (id, mobile_number, full_name, is_online, registration_status, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, u.ID, u.MobileNumber, u.FullName, false, u.RegistrationStatus, u.CreatedAt, u.UpdatedAt); err != nil {
		return nil, writeErr(KindUser, err, nil)
	}
	return u, nil
}

// GetByID fetches a user and the requested relations.  It returns
// ErrUserNotFound if no row is found.
func (r *UserRepo) GetByID(ctx context.Context, id string, rel UserRelations) (*model.User, error) {
	u, err := getUser(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if err := loadUserRelations(ctx, r.db, []*model.User{u}, rel); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByMobile fetches a user by mobile number.  It returns ErrUserNotFound
// if no row is found.
func (r *UserRepo) GetByMobile(ctx context.Context, mobileNumber string) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE mobile_number = ?"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, strings.TrimSpace(mobileNumber)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// List returns every user ordered by creation time.  The slice is never nil.
func (r *UserRepo) List(ctx context.Context, rel UserRelations) ([]*model.User, error) {
	users, err := queryAll(ctx, r.db, scanUser, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	if err := loadUserRelations(ctx, r.db, users, rel); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateDocuments writes the non-nil document URLs.  It is not gated on the
// registration status.
func (r *UserRepo) UpdateDocuments(ctx context.Context, id string, docs model.Documents) (*model.User, error) {
	var (
		sets []string
		args []any
	)
	if docs.AadharFrontURL != nil {
		sets, args = append(sets, "aadhar_front_url = ?"), append(args, *docs.AadharFrontURL)
	}
	if docs.DLURL != nil {
		sets, args = append(sets, "dl_url = ?"), append(args, *docs.DLURL)
	}
	if docs.PanURL != nil {
		sets, args = append(sets, "pan_url = ?"), append(args, *docs.PanURL)
	}
	if len(sets) == 0 {
		return getUser(ctx, r.db, id)
	}
	sets, args = append(sets, "updated_at = ?"), append(args, now(), id)
	q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, writeErr(KindUser, err, nil)
	}
	return getUser(ctx, r.db, id)
}

// CompletePersonal stores the personal registration fields and moves the
// user from status from to status to in a single statement.  If the row's
// status is no longer from, nothing is written and ErrStatusChanged is
// returned.
func (r *UserRepo) CompletePersonal(ctx context.Context, id string, info model.PersonalInfo, from, to registration.Status) (*model.User, error) {
	const q = `UPDATE users SET
	               full_name = ?, current_address = ?, permanent_address = ?, vehicle_details = ?,
	               aadhar_number = ?, driving_license = COALESCE(?, driving_license), pan_card = ?,
	               qualification = ?, languages = ?, gender = ?,
	               aadhar_front_url = ?, aadhar_back_url = ?, pan_url = ?, dl_url = ?, user_image_url = ?,
	               registration_status = ?, updated_at = ?
	           WHERE id = ? AND registration_status = ?`
	res, err := r.db.ExecContext(ctx, q,
		info.FullName, info.CurrentAddress, info.PermanentAddress, info.VehicleDetails,
		info.AadharNumber, info.DrivingLicense, info.PanCard,
		info.Qualification, info.Languages, info.Gender,
		info.AadharFrontURL, info.AadharBackURL, info.PanURL, info.DLURL, info.UserImageURL,
		int(to), now(), id, int(from))
	if err != nil {
		return nil, writeErr(KindUser, err, nil)
	}
	if err := checkAdvanced(ctx, r.db, res, id); err != nil {
		return nil, err
	}
	return getUser(ctx, r.db, id)
}

// AdvanceStatus moves the user from status from to status to, guarded by
// the expected prior value.
func (r *UserRepo) AdvanceStatus(ctx context.Context, id string, from, to registration.Status) (*model.User, error) {
	if err := advanceStatus(ctx, r.db, id, from, to); err != nil {
		return nil, err
	}
	return getUser(ctx, r.db, id)
}

// SetOnline sets is_online to *online, or flips it when online is nil.  The
// flip happens in SQL so concurrent toggles do not lose updates.
func (r *UserRepo) SetOnline(ctx context.Context, id string, online *bool) (*model.User, error) {
	var err error
	if online == nil {
		_, err = r.db.ExecContext(ctx, "UPDATE users SET is_online = NOT is_online, updated_at = ? WHERE id = ?", now(), id)
	} else {
		_, err = r.db.ExecContext(ctx, "UPDATE users SET is_online = ?, updated_at = ? WHERE id = ?", *online, now(), id)
	}
	if err != nil {
		return nil, err
	}
	return getUser(ctx, r.db, id)
}

func getUser(ctx context.Context, db DBTX, id string) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE id = ?"
	u, err := scanUser(db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// advanceStatus is the conditional write shared by every transition.
func advanceStatus(ctx context.Context, db DBTX, id string, from, to registration.Status) error {
	const q = `UPDATE users SET registration_status = ?, updated_at = ?
	           WHERE id = ? AND registration_status = ?`
	res, err := db.ExecContext(ctx, q, int(to), now(), id, int(from))
	if err != nil {
		return err
	}
	return checkAdvanced(ctx, db, res, id)
}

// checkAdvanced tells a lost race apart from a missing user when a guarded
// update touched no row.
func checkAdvanced(ctx context.Context, db DBTX, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status int
	err = db.QueryRowContext(ctx, "SELECT registration_status FROM users WHERE id = ?", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return ErrStatusChanged
}

// usersByID loads users keyed by id.
func usersByID(ctx context.Context, db DBTX, ids []string) (map[string]*model.User, error) {
	users, err := queryIn(ctx, db, scanUser, "SELECT "+userColumns+" FROM users WHERE id", ids, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func loadUserRelations(ctx context.Context, db DBTX, users []*model.User, rel UserRelations) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	if rel.BankDetails {
		byUser, err := bankDetailsByUserID(ctx, db, ids)
		if err != nil {
			return err
		}
		for _, u := range users {
			u.BankDetails = byUser[u.ID]
		}
	}
	if rel.TaskApplications {
		byUser, err := applicationsGroupedBy(ctx, db, "user_id", ids)
		if err != nil {
			return err
		}
		for _, u := range users {
			u.TaskApplications = byUser[u.ID]
		}
	}
	return nil
}
