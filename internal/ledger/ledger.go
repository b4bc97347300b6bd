package ledger

import (
	"context"
	"errors"
	"fmt"

	"escrowfund/internal/escrow"
	"escrowfund/internal/repository"
)

var (
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrNonPositiveAmount   = errors.New("transfer amount must be positive")
)

// Ledger holds token balances and implements the asset-transfer capability.
// Debit and credit run as two statements, so it must be used inside the
// caller's transaction for a transfer to be atomic.
type Ledger struct {
	db repository.DBTX
}

func New(db repository.DBTX) *Ledger {
	return &Ledger{db: db}
}

// Transfer moves amount of token from one account to another. The debit is
// conditional on sufficient balance, so an underfunded sender fails the
// transfer without touching either account.
func (l *Ledger) Transfer(ctx context.Context, token, from, to escrow.Identity, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}

	debit := `
		UPDATE token_balances
		SET amount = amount - $3
		WHERE token = $1 AND account = $2 AND amount >= $3
	`
	tag, err := l.db.Exec(ctx, debit, token, from, amount)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}

	return l.credit(ctx, token, to, amount)
}

// Credit mints amount of token onto an account. Admin faucet path.
func (l *Ledger) Credit(ctx context.Context, token, account escrow.Identity, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	return l.credit(ctx, token, account, amount)
}

func (l *Ledger) credit(ctx context.Context, token, account escrow.Identity, amount int64) error {
	upsert := `
		INSERT INTO token_balances (token, account, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (token, account) DO UPDATE SET amount = token_balances.amount + EXCLUDED.amount
	`
	if _, err := l.db.Exec(ctx, upsert, token, account, amount); err != nil {
		return fmt.Errorf("failed to credit %s: %w", account, err)
	}
	return nil
}

// Balance returns the amount of token held by account, 0 if no row exists.
func (l *Ledger) Balance(ctx context.Context, token, account escrow.Identity) (int64, error) {
	var amount int64
	err := l.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM token_balances WHERE token = $1 AND account = $2
	`, token, account).Scan(&amount)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return amount, nil
}
