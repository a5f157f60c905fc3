package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
)

type CreateUserParams struct {
	Username     string
	Email        string
	FirstName    *string
	LastName     *string
	PasswordHash string
	Role         string
}

type UpdateUserParams struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Role      *string
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpsertByEmail(ctx context.Context, email string, firstName, lastName *string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// SetOTP stores a new OTP digest and expiry in a single conditional
	// update: it only writes when no OTP is stored or the stored expiry is
	// at or before staleBefore, and reports whether the write happened.
	SetOTP(ctx context.Context, id uuid.UUID, otpHash string, expiresAt, staleBefore time.Time) (bool, error)
	ClearOTP(ctx context.Context, id uuid.UUID) error
	// ResetPassword sets the password digest and clears any OTP state in
	// one statement.
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
