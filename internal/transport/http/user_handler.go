package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
	"github.com/rksharma7071/TrueStyle-API/internal/service"
	"github.com/rksharma7071/TrueStyle-API/internal/util"
)

type UserHandler struct {
	auth *service.AuthService
}

func RegisterUsers(e *echo.Echo, auth *service.AuthService) {
	handler := &UserHandler{auth: auth}

	group := e.Group("/users", RequireAuth(auth), RequireAdmin())
	group.GET("", handler.list)
	group.GET("/:id", handler.get)
	group.PUT("/:id", handler.update)
	group.DELETE("/:id", handler.delete)
}

func (h *UserHandler) list(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := h.auth.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("list users: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Internal Server Error"))
	}

	out := make([]AuthUser, 0, len(users))
	for i := range users {
		out = append(out, buildAuthUser(&users[i]))
	}
	return c.JSON(http.StatusOK, util.Envelope{"users": out})
}

func (h *UserHandler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid user id"))
	}

	user, err := h.auth.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("User not found"))
		}
		c.Logger().Errorf("get user: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Internal Server Error"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"user": buildAuthUser(user)})
}

func (h *UserHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid user id"))
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	user, err := h.auth.UpdateUser(c.Request().Context(), id, ports.UpdateUserParams{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("User not found"))
		case errors.Is(err, service.ErrIdentityTaken):
			return c.JSON(http.StatusConflict, util.Error("Email or username already in use"))
		default:
			c.Logger().Errorf("update user: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("Internal Server Error"))
		}
	}
	return c.JSON(http.StatusOK, util.Envelope{"status": "success", "user": buildAuthUser(user)})
}

func (h *UserHandler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid user id"))
	}

	if err := h.auth.DeleteUser(c.Request().Context(), id); err != nil {
		c.Logger().Errorf("delete user: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Internal Server Error"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"status": "success", "message": "User deleted successfully"})
}
