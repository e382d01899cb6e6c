package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT\s+value\s+FROM\s+metadata\s+WHERE\s+key\s*=\s*\$1$`).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("v")))

	v, err := repo.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_Absent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT`).WithArgs("k").WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, err := repo.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPostgresSet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+metadata.*ON\s+CONFLICT\s+\(key\)\s+DO\s+UPDATE`).
		WithArgs("k", []byte("v")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), "k", []byte("v")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`starts_with\(key,\s*\$1\)`).
		WithArgs("user:alice:").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("user:alice:salt", []byte{1}).
			AddRow("user:alice:verifier", []byte{2}))

	m, err := repo.List(context.Background(), UserPrefix("alice"))
	require.NoError(t, err)
	assert.Len(t, m, 2)
}

func TestPostgresDelete_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE\s+FROM\s+metadata`).WillReturnError(errors.New("db down"))

	err := repo.Delete(context.Background(), "k")
	require.ErrorContains(t, err, "db error: db down")
}
