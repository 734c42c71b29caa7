package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestQuestionRepositoryCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "questions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count()

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryFindRandom(t *testing.T) {
	t.Run("filters by subject and level", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuestionRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "questions" WHERE subject = \$1 AND difficulty_level = \$2 .*ORDER BY RANDOM\(\) LIMIT \$3`).
			WithArgs("Go", 2, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "subject", "difficulty_level", "text", "correct_answer"}).
				AddRow(1, "Go", 2, "Zero value of int?", "0"))
		mock.ExpectQuery(`SELECT \* FROM "question_options" WHERE "question_options"\."question_id" = \$1 .*ORDER BY question_options\.position ASC`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "question_id", "position", "text"}).
				AddRow(1, 1, 1, "0").
				AddRow(2, 1, 2, "nil"))

		level := 2
		questions, err := repo.FindRandom("Go", &level, 5)

		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, []string{"0", "nil"}, questions[0].OptionTexts())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil level skips the difficulty clause", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuestionRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "questions" WHERE subject = \$1 AND "questions"\."deleted_at" IS NULL ORDER BY RANDOM\(\) LIMIT \$2`).
			WithArgs("Go", 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "subject"}))

		questions, err := repo.FindRandom("Go", nil, 5)

		require.NoError(t, err)
		assert.Empty(t, questions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuestionRepositoryCountBySubjectAndLevel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepository(db)

	mock.ExpectQuery(`SELECT subject, difficulty_level, COUNT\(id\) as count FROM "questions" .*GROUP BY subject, difficulty_level`).
		WillReturnRows(sqlmock.NewRows([]string{"subject", "difficulty_level", "count"}).
			AddRow("Go", 1, 4).
			AddRow("Go", 3, 2))

	rows, err := repo.CountBySubjectAndLevel()

	require.NoError(t, err)
	assert.Equal(t, []SubjectLevelCount{
		{Subject: "Go", DifficultyLevel: 1, Count: 4},
		{Subject: "Go", DifficultyLevel: 3, Count: 2},
	}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
