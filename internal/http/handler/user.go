package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/auth"
	"docflow/internal/http/middleware"
	"docflow/internal/repository"
	"docflow/internal/service"
	"docflow/internal/validation"
)

// ListUsers handles GET /users with name, email, page and limit filters.
//
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param name query string false "Case-insensitive name substring"
// @Param email query string false "Exact email"
// @Param page query int false "Page, from 1" default(1)
// @Param limit query int false "Page size, 1 to 100" default(10)
// @Success 200 {object} userListResponse
// @Failure 400 {object} errorPayload "Validation failed"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Not an admin"
// @Failure 500 {object} errorPayload
// @Router /users [get]
func ListUsers(svc service.UserService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c, v)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), repository.UserFilter{
			Name:  c.Query("name"),
			Email: c.Query("email"),
		}, pageQuery(q))
		if err != nil {
			return err
		}
		return c.JSON(userListResponse{
			Message: "User list fetched successfully",
			Data:    res.Items,
			Meta:    res.Meta,
		})
	}
}

// GetUser handles GET /users/:userId. data is a list with zero or one user.
//
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} usersResponse
// @Failure 400 {object} errorPayload "Invalid userId"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Neither the user nor an admin"
// @Failure 500 {object} errorPayload
// @Router /users/{userId} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := pathUserID(c)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeOwner(middleware.Principal(c), userID); err != nil {
			return err
		}
		users, err := svc.Get(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(usersResponse{Message: "User details successfully fetched.", Data: users})
	}
}
