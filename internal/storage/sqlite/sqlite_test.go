package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehareddy22/airaware/pkg/logger"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserStorage(t *testing.T) {
	db := openTestDB(t)
	users, err := NewUserStorage(db, logger.NewNop())
	require.NoError(t, err)

	t.Run("create and fetch", func(t *testing.T) {
		id, err := users.CreateUser("a@example.com", "hash-a")
		require.NoError(t, err)
		assert.Greater(t, id, int64(0))

		record, err := users.GetUserByEmail("a@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, record.ID)
		assert.Equal(t, "a@example.com", record.Email)
		assert.Equal(t, "hash-a", record.PasswordHash)
		assert.NotEmpty(t, record.CreatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := users.CreateUser("a@example.com", "hash-b")
		require.ErrorIs(t, err, ErrDuplicateEmail)

		// The original row is untouched
		record, err := users.GetUserByEmail("a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "hash-a", record.PasswordHash)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := users.GetUserByEmail("nobody@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestFeedbackStorage(t *testing.T) {
	db := openTestDB(t)
	feedback, err := NewFeedbackStorage(db, logger.NewNop())
	require.NoError(t, err)

	t.Run("anonymous feedback", func(t *testing.T) {
		id, err := feedback.StoreFeedback(nil, "great dashboard")
		require.NoError(t, err)
		assert.Greater(t, id, int64(0))
	})

	t.Run("attributed feedback", func(t *testing.T) {
		userID := int64(7)
		id, err := feedback.StoreFeedback(&userID, "charts load slowly")
		require.NoError(t, err)
		assert.Greater(t, id, int64(0))
	})
}

func TestRatingStorage(t *testing.T) {
	db := openTestDB(t)
	ratings, err := NewRatingStorage(db, logger.NewNop())
	require.NoError(t, err)

	count, err := ratings.CountRatings()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	userID := int64(3)
	_, err = ratings.StoreRating(&userID, 5)
	require.NoError(t, err)
	_, err = ratings.StoreRating(nil, 1)
	require.NoError(t, err)

	count, err = ratings.CountRatings()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStoragesShareOneDatabase(t *testing.T) {
	db := openTestDB(t)

	_, err := NewUserStorage(db, logger.NewNop())
	require.NoError(t, err)
	_, err = NewFeedbackStorage(db, logger.NewNop())
	require.NoError(t, err)
	_, err = NewRatingStorage(db, logger.NewNop())
	require.NoError(t, err)

	// All three tables exist side by side
	for _, table := range []string{"users", "feedback", "ratings"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}
