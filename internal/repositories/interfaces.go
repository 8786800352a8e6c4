package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/whale-users/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountRepository only ever sees active accounts, except SoftDelete which
// matches on id alone.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdatePartial(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AccountViewCache is a best-effort store for account views keyed by id.
// Misses and backend failures look the same to callers.
//
// Fill only writes when the key is empty, so a read that raced a mutation
// cannot overwrite the marker Invalidate leaves behind. The marker reads as a
// miss and expires after a window longer than any request.
type AccountViewCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.AccountView, bool)
	Fill(ctx context.Context, view *models.AccountView)
	Invalidate(ctx context.Context, id uuid.UUID)
}
