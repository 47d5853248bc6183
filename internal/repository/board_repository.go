package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// BoardFilter narrows a post listing. A zero MemberID lists every author.
type BoardFilter struct {
	Category domain.BoardCategory
	MemberID int64
}

// BoardRepository encapsulates notice and Q&A persistence.
type BoardRepository interface {
	Create(ctx context.Context, post *domain.BoardPost) error
	Update(ctx context.Context, post *domain.BoardPost) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.BoardPost, error)
	List(ctx context.Context, filter BoardFilter) ([]domain.BoardPost, error)
}

type boardRepository struct {
	pool *pgxpool.Pool
}

// NewBoardRepository instantiates repository.
func NewBoardRepository(pool *pgxpool.Pool) BoardRepository {
	return &boardRepository{pool: pool}
}

const boardSelect = `
        SELECT b.id, b.category, b.member_id, m.userid, b.title, b.content, b.created_at
        FROM boards b JOIN members m ON m.id = b.member_id`

func (r *boardRepository) Create(ctx context.Context, post *domain.BoardPost) error {
	const query = `
        INSERT INTO boards (category, member_id, title, content)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		post.Category,
		post.MemberID,
		post.Title,
		post.Content,
	).Scan(&post.ID, &post.CreatedAt)
}

// Update rewrites title and content only; category and author are immutable.
func (r *boardRepository) Update(ctx context.Context, post *domain.BoardPost) error {
	const query = `UPDATE boards SET title=$1, content=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, post.Title, post.Content, post.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *boardRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *boardRepository) GetByID(ctx context.Context, id int64) (*domain.BoardPost, error) {
	const query = boardSelect + ` WHERE b.id=$1`
	return scanBoardPost(r.pool.QueryRow(ctx, query, id))
}

func (r *boardRepository) List(ctx context.Context, filter BoardFilter) ([]domain.BoardPost, error) {
	const query = boardSelect + `
        WHERE b.category=$1 AND ($2::BIGINT = 0 OR b.member_id = $2)
        ORDER BY b.id DESC`

	rows, err := r.pool.Query(ctx, query, filter.Category, filter.MemberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.BoardPost{}
	for rows.Next() {
		post, err := scanBoardPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func scanBoardPost(row pgx.Row) (*domain.BoardPost, error) {
	var post domain.BoardPost
	if err := row.Scan(
		&post.ID,
		&post.Category,
		&post.MemberID,
		&post.UserID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
