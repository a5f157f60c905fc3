package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rksharma7071/TrueStyle-API/internal/service"
	"github.com/rksharma7071/TrueStyle-API/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	handler := &AuthHandler{auth: auth}

	group := e.Group("/auth")
	group.POST("/signup", handler.signUp)
	group.POST("/login", handler.login)
	group.POST("/google", handler.loginWithGoogle)
	group.POST("/change-password", handler.changePassword)
	group.POST("/request-otp", handler.requestOTP)
	group.POST("/verify-otp", handler.verifyOTP)
	group.POST("/reset-password", handler.resetPassword)
}

func (h *AuthHandler) signUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.SignUp(c.Request().Context(), service.SignUpInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return h.writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, util.Envelope{
		"token": result.Token,
		"user":  buildAuthUser(result.User),
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"token": result.Token,
		"user":  buildAuthUser(result.User),
	})
}

func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"token": result.Token,
		"user":  buildAuthUser(result.User),
	})
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.auth.ChangePassword(c.Request().Context(), req.Email, req.OldPassword, req.NewPassword); err != nil {
		return h.writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, util.Message("Password changed successfully."))
}

func (h *AuthHandler) requestOTP(c echo.Context) error {
	var req RequestOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.auth.RequestOTP(c.Request().Context(), req.Email); err != nil {
		return h.writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, util.Message("OTP sent successfully"))
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	ticket, err := h.auth.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"message":     "OTP verified, you can reset your password now",
		"reset_token": ticket,
	})
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.ResetToken, req.Password); err != nil {
		return h.writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, util.Message("Password reset successfully"))
}

func (h *AuthHandler) writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrIdentityTaken):
		return c.JSON(http.StatusConflict, util.Error("Email or username already in use"))
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, util.Error("User not found"))
	case errors.Is(err, service.ErrPasswordIncorrect):
		return c.JSON(http.StatusBadRequest, util.Error("Password is incorrect."))
	case errors.Is(err, service.ErrOTPCooldown):
		return c.JSON(http.StatusTooManyRequests, util.Error("OTP already sent. Try again later."))
	case errors.Is(err, service.ErrOTPNotRequested):
		return c.JSON(http.StatusBadRequest, util.Error("No OTP request found"))
	case errors.Is(err, service.ErrOTPExpired):
		return c.JSON(http.StatusBadRequest, util.Error("OTP has expired"))
	case errors.Is(err, service.ErrOTPInvalid):
		return c.JSON(http.StatusBadRequest, util.Error("Invalid OTP"))
	case errors.Is(err, service.ErrResetTicketUsed):
		return c.JSON(http.StatusBadRequest, util.Error("Reset token invalid or expired"))
	case errors.Is(err, service.ErrGoogleTokenBad):
		return c.JSON(http.StatusUnauthorized, util.Error("Invalid Google token"))
	case errors.Is(err, util.ErrSigningKeyMissing):
		c.Logger().Error("JWT secret is not configured")
		return c.JSON(http.StatusInternalServerError, util.Error("Server config error."))
	default:
		c.Logger().Errorf("auth error: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Server error"))
	}
}
