package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/snehareddy22/airaware/pkg/logger"
)

// RatingRecord represents a stored rating entry
type RatingRecord struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"user_id,omitempty"`
	Rating    int    `json:"rating"`
	CreatedAt string `json:"created_at"`
}

// RatingStorage handles storage of user ratings
type RatingStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewRatingStorage creates a new SQLite rating storage
func NewRatingStorage(db *sql.DB, log *logger.Logger) (*RatingStorage, error) {
	storage := &RatingStorage{
		db:     db,
		logger: log.Named("sqlite-ratings"),
	}
	if err := storage.initDB(); err != nil {
		return nil, err
	}
	return storage, nil
}

// initDB initializes the ratings table
func (s *RatingStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS ratings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER,
			rating INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create ratings table: %w", err)
	}
	return nil
}

// StoreRating inserts one rating entry. Range validation happens at the
// API boundary; rows reaching this point are already in [1,5].
func (s *RatingStorage) StoreRating(userID *int64, rating int) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO ratings (user_id, rating, created_at) VALUES (?, ?, ?)`,
		userID,
		rating,
		time.Now().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert rating: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// CountRatings returns the number of stored ratings (used by tests and
// the health endpoint).
func (s *RatingStorage) CountRatings() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ratings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
