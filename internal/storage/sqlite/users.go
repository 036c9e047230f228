package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/snehareddy22/airaware/pkg/logger"
)

var (
	// ErrDuplicateEmail is returned when signup hits an existing account
	ErrDuplicateEmail = fmt.Errorf("email already registered")
	// ErrUserNotFound is returned when no account matches the email
	ErrUserNotFound = fmt.Errorf("user not found")
)

// UserRecord represents a user account row
type UserRecord struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"created_at"`
}

// UserStorage handles storage of user accounts
type UserStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewUserStorage creates a new SQLite user storage
func NewUserStorage(db *sql.DB, log *logger.Logger) (*UserStorage, error) {
	storage := &UserStorage{
		db:     db,
		logger: log.Named("sqlite-users"),
	}
	if err := storage.initDB(); err != nil {
		return nil, err
	}
	return storage, nil
}

// initDB initializes the users table
func (s *UserStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// CreateUser inserts a new account and returns its id. Returns
// ErrDuplicateEmail when the email is already registered.
func (s *UserStorage) CreateUser(email, passwordHash string) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)`,
		email,
		passwordHash,
		time.Now().Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	s.logger.Info("Created user account", logger.Int64("user_id", id))
	return id, nil
}

// GetUserByEmail returns the account with the given email, or
// ErrUserNotFound.
func (s *UserStorage) GetUserByEmail(email string) (*UserRecord, error) {
	var record UserRecord
	err := s.db.QueryRow(
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		email,
	).Scan(&record.ID, &record.Email, &record.PasswordHash, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &record, nil
}
