package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prudhvinik1/whale-users/internal/models"
	"github.com/prudhvinik1/whale-users/internal/utils"
)

const uniqueViolationCode = "23505"

const accountColumns = `id, name, email, password_hash, created_at, updated_at, last_login_at, active`

// patchColumns is the closed set of columns UpdatePartial may write. Column
// names in the generated statement come from here and nowhere else.
var patchColumns = []struct {
	column string
	value  func(models.AccountPatch) string
}{
	{column: "name", value: func(p models.AccountPatch) string { return p.Name }},
	{column: "email", value: func(p models.AccountPatch) string { return p.Email }},
}

type PostgresAccountRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool, now: utils.Now}
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND active = TRUE`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 AND active = TRUE`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// Create does not check email uniqueness itself; the partial unique index on
// active emails rejects a racing duplicate and that surfaces as ErrDuplicateEmail.
func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `INSERT INTO accounts (id, name, email, password_hash, created_at, updated_at, last_login_at, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING ` + accountColumns

	created, err := scanAccount(r.pool.QueryRow(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
		account.LastLoginAt,
		account.Active,
	))
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New("failed to create account: insert returned no row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return created, nil
}

// UpdatePartial writes only the non-empty fields of patch. An empty patch is a
// plain read and leaves updated_at alone.
func (r *PostgresAccountRepository) UpdatePartial(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error) {
	query, args := buildPatchUpdate(id, patch, r.now())
	if query == "" {
		return r.GetByID(ctx, id)
	}

	account, err := scanAccount(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// SoftDelete matches on id regardless of the active flag, so deleting an
// already deleted account still reports true. updated_at is clamped like in
// UpdatePartial.
func (r *PostgresAccountRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE accounts SET active = FALSE, updated_at = GREATEST($1, created_at) WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, r.now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// TouchLastLogin is best-effort: a row that disappeared in the meantime is
// not an error.
func (r *PostgresAccountRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE accounts SET last_login_at = $1 WHERE id = $2`

	if _, err := r.pool.Exec(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// buildPatchUpdate returns an empty query when the patch touches nothing.
// updated_at never drops below created_at, even when this host's clock is
// behind the one that created the row.
func buildPatchUpdate(id uuid.UUID, patch models.AccountPatch, now time.Time) (string, []any) {
	sets := make([]string, 0, len(patchColumns)+1)
	args := make([]any, 0, len(patchColumns)+2)

	for _, col := range patchColumns {
		value := col.value(patch)
		if value == "" {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col.column, len(args)))
	}
	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, now)
	sets = append(sets, fmt.Sprintf("updated_at = GREATEST($%d, created_at)", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d AND active = TRUE RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)
	return query, args
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.LastLoginAt,
		&account.Active,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
