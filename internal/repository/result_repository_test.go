package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRepositoryFindAllByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResultRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "results" WHERE user_id = \$1 .*ORDER BY created_at DESC`).
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "subject", "score", "total_questions", "accuracy"}).
			AddRow(2, 7, "SQL", 3, 5, 60.0).
			AddRow(1, 7, "Go", 4, 5, 80.0))

	results, err := repo.FindAllByUser(7)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "SQL", results[0].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryFindRecentByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResultRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "results" WHERE user_id = \$1 .*ORDER BY created_at DESC LIMIT \$2`).
		WithArgs(uint(7), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "accuracy"}).AddRow(1, 7, 80.0))

	results, err := repo.FindRecentByUser(7, 10)

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryAvgAccuracyByUser(t *testing.T) {
	t.Run("averages stored accuracy", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewResultRepository(db)

		mock.ExpectQuery(`SELECT AVG\(accuracy\) FROM "results" WHERE user_id = \$1`).
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(72.5))

		avg, err := repo.AvgAccuracyByUser(7)

		require.NoError(t, err)
		assert.Equal(t, 72.5, avg)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no results averages to zero", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewResultRepository(db)

		mock.ExpectQuery(`SELECT AVG\(accuracy\) FROM "results" WHERE user_id = \$1`).
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

		avg, err := repo.AvgAccuracyByUser(7)

		require.NoError(t, err)
		assert.Zero(t, avg)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
