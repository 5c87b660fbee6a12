package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-marketplace/internal/database"
	"github.com/iliyamo/gig-marketplace/internal/database/dbtest"
)

func TestDuplicateColumn_MySQL(t *testing.T) {
	tests := []struct {
		msg   string
		field string
	}{
		{msg: "Duplicate entry '9999999999' for key 'users.mobile_number'", field: "mobile_number"},
		{msg: "Duplicate entry 'a@b.c' for key 'contact_email'", field: "contact_email"},
		{msg: "Duplicate entry", field: ""},
	}
	for _, tt := range tests {
		field, ok := database.DuplicateColumn(&mysql.MySQLError{Number: 1062, Message: tt.msg})
		assert.True(t, ok, tt.msg)
		assert.Equal(t, tt.field, field)
	}
	_, ok := database.DuplicateColumn(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	assert.False(t, ok)
	assert.True(t, database.IsForeignKeyViolation(&mysql.MySQLError{Number: 1452}))
	_, ok = database.DuplicateColumn(errors.New("boom"))
	assert.False(t, ok)
}

func TestDuplicateColumn_SQLite(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	const q = `INSERT INTO companies (id, company_name, contact_email, contact_phone, address, created_at)
	           VALUES (?, 'Acme', 'ops@acme.test', '1', 'x', CURRENT_TIMESTAMP)`
	_, err := db.ExecContext(ctx, q, "c1")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, q, "c2")
	field, ok := database.DuplicateColumn(err)
	assert.True(t, ok)
	assert.Equal(t, "contact_email", field)

	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, company_id, title, job_role, offered_amount, location,
	    location_coordinate, required_number_of_workers, created_at)
	    VALUES ('t1', 'missing', 't', 'r', 1, 'l', '{}', 1, CURRENT_TIMESTAMP)`)
	assert.True(t, database.IsForeignKeyViolation(err))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.Migrate(context.Background(), db, "sqlite"))
	require.Error(t, database.Migrate(context.Background(), db, "postgres"))
}
