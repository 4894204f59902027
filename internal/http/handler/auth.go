package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/service"
	"docflow/internal/validation"
)

// Register handles POST /auth/register.
//
// @Summary Register a user
// @Description Creates the account with the identity provider, then the local user record.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body validation.RegisterRequest true "New account"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorPayload "Validation failed, duplicate email or sign-up refused"
// @Failure 500 {object} errorPayload
// @Router /auth/register [post]
func Register(svc service.AuthService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validation.RegisterRequest
		if err := bind(c, v, &req, validation.RegisterMessages); err != nil {
			return err
		}
		_, err := svc.Register(c.UserContext(), service.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: "User registered successfully"})
	}
}

// Login handles POST /auth/login.
//
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body validation.LoginRequest true "Credentials"
// @Success 201 {object} loginResponse
// @Failure 400 {object} errorPayload "Validation failed"
// @Failure 401 {object} errorPayload "Bad credentials or no local user"
// @Failure 500 {object} errorPayload
// @Router /auth/login [post]
func Login(svc service.AuthService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validation.LoginRequest
		if err := bind(c, v, &req, validation.LoginMessages); err != nil {
			return err
		}
		res, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(loginResponse{
			Message:      "User logged in successfully",
			User:         res.User,
			AccessToken:  res.Session.AccessToken,
			RefreshToken: res.Session.RefreshToken,
		})
	}
}

// RefreshToken handles POST /auth/refresh-token.
//
// @Summary Refresh a session
// @Tags auth
// @Accept json
// @Produce json
// @Param body body validation.RefreshRequest true "Refresh token"
// @Success 200 {object} refreshResponse
// @Failure 400 {object} errorPayload "Validation failed"
// @Failure 401 {object} errorPayload "Refresh token rejected"
// @Failure 500 {object} errorPayload
// @Router /auth/refresh-token [post]
func RefreshToken(svc service.AuthService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validation.RefreshRequest
		if err := bind(c, v, &req, validation.RefreshMessages); err != nil {
			return err
		}
		sess, err := svc.Refresh(c.UserContext(), req.RefreshToken)
		if err != nil {
			return err
		}
		return c.JSON(refreshResponse{
			Message:      "Token refreshed successfully",
			AccessToken:  sess.AccessToken,
			RefreshToken: sess.RefreshToken,
		})
	}
}
