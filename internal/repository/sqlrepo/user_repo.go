package sqlrepo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqlUserRepository implements repository.UserRepository
type sqlUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a user repository backed by a SQL database.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &sqlUserRepository{db: db}
}

// Create inserts a new user. The unique index on username decides races
// between concurrent registrations.
func (r *sqlUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = repository.NewID()
	user.CreatedAt = utc(time.Now())

	query := r.db.Rebind(`INSERT INTO users (id, username, password, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Password, user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by exact, case-sensitive username.
func (r *sqlUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := r.db.Rebind(`SELECT id, username, password, created_at FROM users WHERE username = ?`)
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
