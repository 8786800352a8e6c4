package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/whale-users/internal/models"
	"github.com/prudhvinik1/whale-users/internal/repositories"
	"github.com/prudhvinik1/whale-users/internal/utils"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = repositories.ErrDuplicateEmail
	ErrNotFound           = repositories.ErrNotFound
)

// StorageError wraps an unexpected persistence failure. Callers should treat
// it as opaque.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	hasher      utils.PasswordHasher
	cache       repositories.AccountViewCache
	log         *zap.Logger
	now         func() time.Time

	// dummyHash is verified against when the email is unknown so both login
	// failure paths spend the same time in bcrypt.
	dummyHash string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	hasher utils.PasswordHasher,
	cache repositories.AccountViewCache,
	log *zap.Logger,
) *AccountService {
	if cache == nil {
		cache = repositories.NoopAccountViewCache{}
	}
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Warn("failed to prepare dummy password hash", zap.Error(err))
	}

	return &AccountService{
		accountRepo: accountRepo,
		hasher:      hasher,
		cache:       cache,
		log:         log,
		now:         utils.Now,
		dummyHash:   dummyHash,
	}
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountView, error) {
	if view, ok := s.cache.Get(ctx, id); ok {
		return view, nil
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storageError("get account", err)
	}

	view := account.View()
	s.cache.Fill(ctx, view)
	return view, nil
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.AccountView, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storageError("get account by email", err)
	}
	return account.View(), nil
}

// Register fails with ErrDuplicateEmail when an active account already uses
// the email, whether caught by the lookup or by the storage constraint.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.AccountView, error) {
	_, err := s.accountRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, s.storageError("check email", err)
	}

	hashedPassword, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	account := &models.Account{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
		Active:       true,
	}

	created, err := s.accountRepo.Create(ctx, account)
	if errors.Is(err, repositories.ErrDuplicateEmail) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, s.storageError("create account", err)
	}

	s.log.Info("account registered", zap.String("account_id", created.ID.String()))

	view := created.View()
	s.cache.Fill(ctx, view)
	return view, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*models.AccountView, error) {
	account, err := s.accountRepo.GetByEmail(ctx, in.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.hasher.Verify(in.Password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.storageError("get account for login", err)
	}

	if !s.hasher.Verify(in.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	loginAt := s.now()
	if err := s.accountRepo.TouchLastLogin(ctx, account.ID, loginAt); err != nil {
		return nil, s.storageError("update last login", err)
	}
	account.LastLoginAt = &loginAt
	s.cache.Invalidate(ctx, account.ID)

	return account.View(), nil
}

func (s *AccountService) Update(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.AccountView, error) {
	account, err := s.accountRepo.UpdatePartial(ctx, id, patch)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if errors.Is(err, repositories.ErrDuplicateEmail) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, s.storageError("update account", err)
	}
	s.cache.Invalidate(ctx, id)

	return account.View(), nil
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.accountRepo.SoftDelete(ctx, id)
	if err != nil {
		return false, s.storageError("delete account", err)
	}

	s.cache.Invalidate(ctx, id)
	if deleted {
		s.log.Info("account deleted", zap.String("account_id", id.String()))
	}
	return deleted, nil
}

func (s *AccountService) storageError(op string, err error) error {
	s.log.Error("account storage failure", zap.String("op", op), zap.Error(err))
	return &StorageError{Op: op, Err: err}
}
