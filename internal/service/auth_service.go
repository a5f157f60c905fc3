package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
	"github.com/rksharma7071/TrueStyle-API/internal/util"
)

// OTPSender delivers a one-time code out of band. Delivery failure fails
// the request-otp operation even though the code is already persisted.
type OTPSender interface {
	SendOTP(ctx context.Context, email, otp string) error
}

type AuthService struct {
	users  ports.UserRepository
	mailer OTPSender
	tokens *util.TokenManager

	googleAud   string
	otpTTL      time.Duration
	otpCooldown time.Duration

	now func() time.Time
}

func NewAuthService(users ports.UserRepository, mailer OTPSender, tokens *util.TokenManager, googleAud string, otpTTL, otpCooldown time.Duration) *AuthService {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	if otpCooldown <= 0 || otpCooldown > otpTTL {
		otpCooldown = time.Minute
	}
	return &AuthService{
		users:       users,
		mailer:      mailer,
		tokens:      tokens,
		googleAud:   googleAud,
		otpTTL:      otpTTL,
		otpCooldown: otpCooldown,
		now:         time.Now,
	}
}

type SignUpInput struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password", ErrMissingFields)
	}

	if _, err := s.users.FindByEmailOrUsername(ctx, email, username); err == nil {
		return nil, ErrIdentityTaken
	} else if !isNoRows(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Username:     username,
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrIdentityTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password", ErrMissingFields)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !util.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrPasswordIncorrect
	}

	return s.issueToken(user)
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (*AuthResult, error) {
	payload, err := idtoken.Validate(ctx, idTok, s.googleAud)
	if err != nil {
		return nil, ErrGoogleTokenBad
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, ErrGoogleTokenBad
	}
	firstName := optionalClaim(payload.Claims, "given_name")
	lastName := optionalClaim(payload.Claims, "family_name")

	user, err := s.users.UpsertByEmail(ctx, normalizeEmail(email), firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("upsert google user: %w", err)
	}

	return s.issueToken(user)
}

// Authenticate resolves a bearer token to its user. Used by the request
// middleware.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: email, old password and new password", ErrMissingFields)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if !util.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrPasswordIncorrect
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RequestOTP issues a six-digit reset code valid for otpTTL and mails it.
// A code issued less than otpCooldown ago is not replaced: the in-memory
// check gives the caller a clean 429 and the conditional update closes the
// window between check and write.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email", ErrMissingFields)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	resendAt := s.otpTTL - s.otpCooldown
	if user.HasPendingOTP() && now.Before(user.OTPExpiresAt.Add(-resendAt)) {
		return ErrOTPCooldown
	}

	code, err := util.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	hash, err := util.HashPassword(code)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	ok, err := s.users.SetOTP(ctx, user.ID, hash, now.Add(s.otpTTL), now.Add(resendAt))
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if !ok {
		return ErrOTPCooldown
	}

	if err := s.mailer.SendOTP(ctx, user.Email, code); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// VerifyOTP checks the submitted code against the stored digest. On success
// the OTP state is cleared and a short-lived reset ticket is returned; that
// ticket is the only way to authorize ResetPassword.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return "", fmt.Errorf("%w: email and otp", ErrMissingFields)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !user.HasPendingOTP() {
		return "", ErrOTPNotRequested
	}
	if s.now().After(*user.OTPExpiresAt) {
		// state left as-is; the next request-otp overwrites it
		return "", ErrOTPExpired
	}
	if !util.VerifyPassword(code, *user.OTPHash) {
		return "", ErrOTPInvalid
	}

	if err := s.users.ClearOTP(ctx, user.ID); err != nil {
		return "", fmt.Errorf("clear otp: %w", err)
	}
	ticket, _, err := s.tokens.GenerateResetTicket(user.ID)
	if err != nil {
		return "", err
	}
	return ticket, nil
}

// ResetPassword sets a new password hash and clears any OTP state in one
// statement. The reset ticket from VerifyOTP is required: a reset without
// a prior successful verification is refused.
func (s *AuthService) ResetPassword(ctx context.Context, email, ticket, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || ticket == "" || newPassword == "" {
		return fmt.Errorf("%w: email, reset token and password", ErrMissingFields)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	ticketUserID, err := s.tokens.ParseResetTicket(ticket)
	if err != nil {
		if err == util.ErrSigningKeyMissing {
			return err
		}
		return ErrResetTicketUsed
	}
	if ticketUserID != user.ID {
		return ErrResetTicketUsed
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, id uuid.UUID, params ports.UpdateUserParams) (*domain.User, error) {
	user, err := s.users.Update(ctx, id, params)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrIdentityTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalClaim(claims map[string]interface{}, key string) *string {
	if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
		return &v
	}
	return nil
}
