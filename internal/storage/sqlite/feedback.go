package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/snehareddy22/airaware/pkg/logger"
)

// FeedbackRecord represents a stored feedback entry
type FeedbackRecord struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"user_id,omitempty"`
	Feedback  string `json:"feedback"`
	CreatedAt string `json:"created_at"`
}

// FeedbackStorage handles storage of user feedback
type FeedbackStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewFeedbackStorage creates a new SQLite feedback storage
func NewFeedbackStorage(db *sql.DB, log *logger.Logger) (*FeedbackStorage, error) {
	storage := &FeedbackStorage{
		db:     db,
		logger: log.Named("sqlite-feedback"),
	}
	if err := storage.initDB(); err != nil {
		return nil, err
	}
	return storage, nil
}

// initDB initializes the feedback table
func (s *FeedbackStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER,
			feedback TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}
	return nil
}

// StoreFeedback inserts one feedback entry. userID is nil for
// anonymous submissions.
func (s *FeedbackStorage) StoreFeedback(userID *int64, feedback string) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO feedback (user_id, feedback, created_at) VALUES (?, ?, ?)`,
		userID,
		feedback,
		time.Now().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert feedback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}
