package service

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrUserNotFound      = errors.New("user not found")
	ErrIdentityTaken     = errors.New("email or username already in use")
	ErrPasswordIncorrect = errors.New("password is incorrect")

	ErrOTPCooldown      = errors.New("otp already sent, try again later")
	ErrOTPNotRequested  = errors.New("no otp request found")
	ErrOTPExpired       = errors.New("otp has expired")
	ErrOTPInvalid       = errors.New("invalid otp")
	ErrResetTicketUsed  = errors.New("reset ticket invalid or expired")
	ErrGoogleTokenBad   = errors.New("invalid google token")
	ErrInvalidToken     = errors.New("invalid or expired token")

	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrProductInvalid  = errors.New("invalid product")
	ErrImageInvalid    = errors.New("invalid image upload")
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
