package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrAccountNotFound = errors.New("account not found")

// Account is an API identity: a creator or backer that can authenticate and
// act through this service.
type Account struct {
	Identity     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts a new account.
func (r *AccountRepository) CreateAccount(ctx context.Context, a *Account) error {
	query := `
        INSERT INTO accounts (identity, password_hash, role, created_at)
        VALUES ($1, $2, $3, NOW())
    `
	if _, err := r.db.Exec(ctx, query, a.Identity, a.PasswordHash, a.Role); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByIdentity returns an account by its identity.
func (r *AccountRepository) FindByIdentity(ctx context.Context, identity string) (*Account, error) {
	query := `
        SELECT identity, password_hash, role, created_at
        FROM accounts
        WHERE identity = $1
    `
	var a Account
	err := r.db.QueryRow(ctx, query, identity).Scan(
		&a.Identity, &a.PasswordHash, &a.Role, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Exists reports whether an identity is already registered.
func (r *AccountRepository) Exists(ctx context.Context, identity string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE identity = $1)`, identity).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}
