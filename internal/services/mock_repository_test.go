package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/whale-users/internal/models"
	"github.com/prudhvinik1/whale-users/internal/repositories"
)

// mockRepository mirrors the Postgres semantics: lookups see active rows only
// and email is unique among active rows.
type mockRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*models.Account
	now      func() time.Time

	// failWith, when set, is returned by every call.
	failWith error
	touched  int
}

func newMockRepository(now func() time.Time) *mockRepository {
	return &mockRepository{
		accounts: make(map[uuid.UUID]*models.Account),
		now:      now,
	}
}

func (r *mockRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	account, ok := r.accounts[id]
	if !ok || !account.Active {
		return nil, repositories.ErrNotFound
	}
	return clone(account), nil
}

func (r *mockRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	if account := r.activeByEmail(email); account != nil {
		return clone(account), nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	if r.activeByEmail(account.Email) != nil {
		return nil, repositories.ErrDuplicateEmail
	}
	r.accounts[account.ID] = clone(account)
	return clone(account), nil
}

func (r *mockRepository) UpdatePartial(_ context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	account, ok := r.accounts[id]
	if !ok || !account.Active {
		return nil, repositories.ErrNotFound
	}
	if patch.IsEmpty() {
		return clone(account), nil
	}
	if patch.Email != "" {
		if other := r.activeByEmail(patch.Email); other != nil && other.ID != id {
			return nil, repositories.ErrDuplicateEmail
		}
		account.Email = patch.Email
	}
	if patch.Name != "" {
		account.Name = patch.Name
	}
	account.UpdatedAt = r.now()
	return clone(account), nil
}

func (r *mockRepository) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return false, r.failWith
	}
	account, ok := r.accounts[id]
	if !ok {
		return false, nil
	}
	account.Active = false
	account.UpdatedAt = r.now()
	return true, nil
}

func (r *mockRepository) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}
	r.touched++
	if account, ok := r.accounts[id]; ok {
		account.LastLoginAt = &at
	}
	return nil
}

func (r *mockRepository) raw(id uuid.UUID) *models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.accounts[id])
}

func (r *mockRepository) activeByEmail(email string) *models.Account {
	for _, account := range r.accounts {
		if account.Active && account.Email == email {
			return account
		}
	}
	return nil
}

func clone(account *models.Account) *models.Account {
	if account == nil {
		return nil
	}
	c := *account
	if account.LastLoginAt != nil {
		at := *account.LastLoginAt
		c.LastLoginAt = &at
	}
	return &c
}

// stepClock advances by one second on every reading.
type stepClock struct {
	mu      sync.Mutex
	current time.Time
}

func newStepClock() *stepClock {
	return &stepClock{current: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(time.Second)
	return c.current
}

// mapCache is an in-memory AccountViewCache. Invalidation markers never
// expire here.
type mapCache struct {
	mu          sync.Mutex
	views       map[uuid.UUID]models.AccountView
	invalidated map[uuid.UUID]bool
}

func newMapCache() *mapCache {
	return &mapCache{
		views:       make(map[uuid.UUID]models.AccountView),
		invalidated: make(map[uuid.UUID]bool),
	}
}

func (c *mapCache) Get(_ context.Context, id uuid.UUID) (*models.AccountView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view, ok := c.views[id]
	if !ok {
		return nil, false
	}
	return &view, true
}

func (c *mapCache) Fill(_ context.Context, view *models.AccountView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.views[view.ID]; ok || c.invalidated[view.ID] {
		return
	}
	c.views[view.ID] = *view
}

func (c *mapCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, id)
	c.invalidated[id] = true
}

// expire drops the entry and any marker, as if both TTLs had run out.
func (c *mapCache) expire(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, id)
	delete(c.invalidated, id)
}

// interleavingRepository runs onGetByID once, after the row has been read
// and before the caller sees it.
type interleavingRepository struct {
	*mockRepository
	onGetByID func()
}

func (r *interleavingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := r.mockRepository.GetByID(ctx, id)
	if hook := r.onGetByID; hook != nil {
		r.onGetByID = nil
		hook()
	}
	return account, err
}

var errBoom = errors.New("connection reset by peer")
