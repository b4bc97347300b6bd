package account

import (
	"context"
	"errors"

	"escrowfund/internal/auth"
	"escrowfund/internal/repository"
)

var (
	ErrIdentityTaken      = errors.New("identity already registered")
	ErrInvalidCredentials = errors.New("invalid identity or password")
)

// Service registers identities and exchanges credentials for tokens. It
// models the host platform's caller authentication: a login proves control
// of an identity for the lifetime of the token.
type Service struct {
	accounts *repository.AccountRepository
	tokens   *auth.Manager
}

func NewService(accounts *repository.AccountRepository, tokens *auth.Manager) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
	}
}

// Register creates a new account with the default user role.
func (s *Service) Register(ctx context.Context, identity, password string) error {
	exists, err := s.accounts.Exists(ctx, identity)
	if err != nil {
		return err
	}
	if exists {
		return ErrIdentityTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return s.accounts.CreateAccount(ctx, &repository.Account{
		Identity:     identity,
		PasswordHash: hash,
		Role:         "user",
	})
}

// Login checks credentials and returns a token for the identity.
func (s *Service) Login(ctx context.Context, identity, password string) (string, error) {
	a, err := s.accounts.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(password, a.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(a.Identity, a.Role)
}
