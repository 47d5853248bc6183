package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// StoreRepository encapsulates store persistence.
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	Update(ctx context.Context, store *domain.Store) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	GetByOwner(ctx context.Context, memberID int64) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
	SearchByName(ctx context.Context, name string) ([]domain.Store, error)
}

type storeRepository struct {
	pool *pgxpool.Pool
}

// NewStoreRepository instantiates repository.
func NewStoreRepository(pool *pgxpool.Pool) StoreRepository {
	return &storeRepository{pool: pool}
}

const storeColumns = `id, member_id, category, name, address, phone, open_h, open_m, closed_h, closed_m, thumbnail, created_at`

func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	const query = `
        INSERT INTO stores (member_id, category, name, address, phone, open_h, open_m, closed_h, closed_m, thumbnail)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		store.MemberID,
		store.Category,
		store.Name,
		store.Address,
		store.Phone,
		store.OpenH,
		store.OpenM,
		store.ClosedH,
		store.ClosedM,
		store.Thumbnail,
	).Scan(&store.ID, &store.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *storeRepository) Update(ctx context.Context, store *domain.Store) error {
	const query = `
        UPDATE stores SET category=$1, name=$2, address=$3, phone=$4, open_h=$5, open_m=$6,
            closed_h=$7, closed_m=$8, thumbnail=$9
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		store.Category,
		store.Name,
		store.Address,
		store.Phone,
		store.OpenH,
		store.OpenM,
		store.ClosedH,
		store.ClosedM,
		store.Thumbnail,
		store.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *storeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *storeRepository) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	const query = `SELECT ` + storeColumns + ` FROM stores WHERE id=$1`
	return scanStore(r.pool.QueryRow(ctx, query, id))
}

// GetByOwner returns the oldest store of an owner.
func (r *storeRepository) GetByOwner(ctx context.Context, memberID int64) (*domain.Store, error) {
	const query = `SELECT ` + storeColumns + ` FROM stores WHERE member_id=$1 ORDER BY id LIMIT 1`
	return scanStore(r.pool.QueryRow(ctx, query, memberID))
}

func (r *storeRepository) List(ctx context.Context) ([]domain.Store, error) {
	const query = `SELECT ` + storeColumns + ` FROM stores ORDER BY id`
	return r.list(ctx, query)
}

func (r *storeRepository) SearchByName(ctx context.Context, name string) ([]domain.Store, error) {
	const query = `SELECT ` + storeColumns + ` FROM stores WHERE name ILIKE $1 ORDER BY id`
	return r.list(ctx, query, "%"+escapeLike(strings.TrimSpace(name))+"%")
}

func (r *storeRepository) list(ctx context.Context, query string, args ...any) ([]domain.Store, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}
	return stores, rows.Err()
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	var store domain.Store
	if err := row.Scan(
		&store.ID,
		&store.MemberID,
		&store.Category,
		&store.Name,
		&store.Address,
		&store.Phone,
		&store.OpenH,
		&store.OpenM,
		&store.ClosedH,
		&store.ClosedM,
		&store.Thumbnail,
		&store.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &store, nil
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
