package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate key")

const uniqueViolation = "23505"

// MemberRepository defines persistence access for member accounts.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	UpdateProfile(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Member, error)
	AddPoint(ctx context.Context, id int64, amount int64) (int64, error)
	SetPoint(ctx context.Context, id int64, point int64) error
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (userid, password_hash, name, birth, phone, email, address, role, point)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		member.UserID,
		member.PasswordHash,
		member.Name,
		member.Birth,
		member.Phone,
		member.Email,
		member.Address,
		member.Role,
		member.Point,
	).Scan(&member.ID, &member.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *memberRepository) UpdateProfile(ctx context.Context, member *domain.Member) error {
	const query = `
        UPDATE members SET password_hash=$1, name=$2, birth=$3, phone=$4, email=$5, address=$6
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		member.PasswordHash,
		member.Name,
		member.Birth,
		member.Phone,
		member.Email,
		member.Address,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	const query = `
        SELECT id, userid, password_hash, name, birth, phone, email, address, role, point, created_at
        FROM members WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *memberRepository) GetByUserID(ctx context.Context, userID string) (*domain.Member, error) {
	const query = `
        SELECT id, userid, password_hash, name, birth, phone, email, address, role, point, created_at
        FROM members WHERE userid=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *memberRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Member, error) {
	var member domain.Member
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&member.ID,
		&member.UserID,
		&member.PasswordHash,
		&member.Name,
		&member.Birth,
		&member.Phone,
		&member.Email,
		&member.Address,
		&member.Role,
		&member.Point,
		&member.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) AddPoint(ctx context.Context, id int64, amount int64) (int64, error) {
	const query = `UPDATE members SET point = point + $1 WHERE id=$2 RETURNING point`

	var point int64
	if err := r.pool.QueryRow(ctx, query, amount, id).Scan(&point); err != nil {
		return 0, err
	}
	return point, nil
}

func (r *memberRepository) SetPoint(ctx context.Context, id int64, point int64) error {
	const query = `UPDATE members SET point=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, point, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
