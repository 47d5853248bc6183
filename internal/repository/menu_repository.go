package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// MenuRepository encapsulates menu persistence.
type MenuRepository interface {
	Create(ctx context.Context, menu *domain.Menu) error
	Update(ctx context.Context, menu *domain.Menu) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Menu, error)
	ListByStore(ctx context.Context, storeID int64) ([]domain.Menu, error)
}

type menuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository instantiates repository.
func NewMenuRepository(pool *pgxpool.Pool) MenuRepository {
	return &menuRepository{pool: pool}
}

func (r *menuRepository) Create(ctx context.Context, menu *domain.Menu) error {
	const query = `
        INSERT INTO menus (store_id, title, content, price, thumbnail)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		menu.StoreID,
		menu.Title,
		menu.Content,
		menu.Price,
		menu.Thumbnail,
	).Scan(&menu.ID)
}

func (r *menuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	const query = `
        UPDATE menus SET title=$1, content=$2, price=$3, thumbnail=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		menu.Title,
		menu.Content,
		menu.Price,
		menu.Thumbnail,
		menu.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *menuRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menus WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *menuRepository) GetByID(ctx context.Context, id int64) (*domain.Menu, error) {
	const query = `SELECT id, store_id, title, content, price, thumbnail FROM menus WHERE id=$1`

	var menu domain.Menu
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&menu.ID,
		&menu.StoreID,
		&menu.Title,
		&menu.Content,
		&menu.Price,
		&menu.Thumbnail,
	); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) ListByStore(ctx context.Context, storeID int64) ([]domain.Menu, error) {
	const query = `
        SELECT id, store_id, title, content, price, thumbnail
        FROM menus WHERE store_id=$1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menus := []domain.Menu{}
	for rows.Next() {
		var menu domain.Menu
		if err := rows.Scan(
			&menu.ID,
			&menu.StoreID,
			&menu.Title,
			&menu.Content,
			&menu.Price,
			&menu.Thumbnail,
		); err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}
