package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger-service/internal/core/domain"
	"wallet-ledger-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// OwnerRepo implements ports.OwnerRepository.
type OwnerRepo struct {
	pool Pool
}

// NewOwnerRepo creates a new OwnerRepo.
func NewOwnerRepo(pool Pool) *OwnerRepo {
	return &OwnerRepo{pool: pool}
}

const ownerColumns = `id, username, password_hash, created_at, updated_at`

// Create inserts a new owner account.
func (r *OwnerRepo) Create(ctx context.Context, o *domain.Owner) error {
	query := `INSERT INTO owners (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.Username, o.PasswordHash, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrDuplicateOwner
		}
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

// GetByID fetches an owner by UUID.
func (r *OwnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE id = $1`
	return scanOwner(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches an owner by username.
func (r *OwnerRepo) GetByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE username = $1`
	return scanOwner(r.pool.QueryRow(ctx, query, username))
}

func scanOwner(row pgx.Row) (*domain.Owner, error) {
	o := &domain.Owner{}
	err := row.Scan(&o.ID, &o.Username, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan owner: %w", err)
	}
	return o, nil
}
