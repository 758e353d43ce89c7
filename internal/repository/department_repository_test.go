package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/models"
)

func newDepartmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func departmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "code", "description", "created_at", "updated_at"})
}

func TestDepartmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newDepartmentMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	rows := departmentRows().
		AddRow(int64(1), "Computer Science", "CS", nil, time.Now(), time.Now()).
		AddRow(int64(2), "Mathematics", "MATH", "Pure and applied", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM departments ORDER BY name ASC").WillReturnRows(rows)

	departments, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, departments, 2)
	assert.Equal(t, "CS", departments[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newDepartmentMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery("INSERT INTO departments").
		WithArgs("Physics", "PHY", nil).
		WillReturnRows(departmentRows().AddRow(int64(3), "Physics", "PHY", nil, time.Now(), time.Now()))

	created, err := repo.Create(context.Background(), &models.Department{Name: "Physics", Code: "PHY"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryUpdatePartial(t *testing.T) {
	db, mock, cleanup := newDepartmentMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	name := "Applied Mathematics"
	mock.ExpectQuery(`UPDATE departments SET name = \$1, updated_at = now\(\) WHERE id = \$2 RETURNING`).
		WithArgs(name, int64(2)).
		WillReturnRows(departmentRows().AddRow(int64(2), name, "MATH", nil, time.Now(), time.Now()))

	updated, err := repo.Update(context.Background(), 2, models.DepartmentPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryDeleteReturnsPriorState(t *testing.T) {
	db, mock, cleanup := newDepartmentMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery("DELETE FROM departments WHERE id = (.+) RETURNING").
		WithArgs(int64(1)).
		WillReturnRows(departmentRows().AddRow(int64(1), "Computer Science", "CS", nil, time.Now(), time.Now()))

	deleted, err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", deleted.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
