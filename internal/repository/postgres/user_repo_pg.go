package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, role, otp_hash, otp_expires_at, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, params ports.CreateUserParams) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (username, email, first_name, last_name, password_hash, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, params.Username, params.Email, params.FirstName, params.LastName, params.PasswordHash, params.Role)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE email = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE email = $1 OR username = $2 LIMIT 1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email, username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE id = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertByEmail backs federated login: an existing account is matched by
// email, otherwise one is created with the email as username. A taken
// username (another account already uses this email as its handle) gets a
// random suffix instead of surfacing the unique violation.
func (r *UserRepository) UpsertByEmail(ctx context.Context, email string, firstName, lastName *string) (*domain.User, error) {
	user, err := r.upsertByEmail(ctx, email, email, firstName, lastName)
	if err == nil || !isUsernameViolation(err) {
		return user, err
	}
	alt := fmt.Sprintf("%s-%s", email, uuid.NewString()[:8])
	return r.upsertByEmail(ctx, alt, email, firstName, lastName)
}

func (r *UserRepository) upsertByEmail(ctx context.Context, username, email string, firstName, lastName *string) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (username, email, first_name, last_name, password_hash, role)
        VALUES ($1, $2, $3, $4, '', 'user')
        ON CONFLICT (email) DO UPDATE
        SET first_name = COALESCE(user_account.first_name, EXCLUDED.first_name),
            last_name = COALESCE(user_account.last_name, EXCLUDED.last_name),
            updated_at = NOW()
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, username, email, firstName, lastName)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// isUsernameViolation classifies a unique violation as coming from the
// username constraint rather than the email one targeted by ON CONFLICT.
func isUsernameViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "username")
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, params ports.UpdateUserParams) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET username = COALESCE($2, username),
            email = COALESCE($3, email),
            first_name = COALESCE($4, first_name),
            last_name = COALESCE($5, last_name),
            role = COALESCE($6, role),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, params.Username, params.Email, params.FirstName, params.LastName, params.Role)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM user_account WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, passwordHash)
	return err
}

// SetOTP refuses to overwrite a code issued inside the resend cooldown:
// the write only lands when no expiry is stored or the stored expiry is at
// or before staleBefore. Concurrent requests race on the same condition,
// so at most one wins.
func (r *UserRepository) SetOTP(ctx context.Context, id uuid.UUID, otpHash string, expiresAt, staleBefore time.Time) (bool, error) {
	const query = `
        UPDATE user_account
        SET otp_hash = $2,
            otp_expires_at = $3,
            updated_at = NOW()
        WHERE id = $1
          AND (otp_expires_at IS NULL OR otp_expires_at <= $4)
    `
	res, err := r.db.ExecContext(ctx, query, id, otpHash, expiresAt, staleBefore)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *UserRepository) ClearOTP(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE user_account
        SET otp_hash = NULL,
            otp_expires_at = NULL,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *UserRepository) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            otp_hash = NULL,
            otp_expires_at = NULL,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, passwordHash)
	return err
}
