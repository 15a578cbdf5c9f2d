package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docmanager/internal/auth"
	"docmanager/internal/config"
	"docmanager/internal/model"
	"docmanager/internal/service"
)

type registerRequest struct {
	Name            string `json:"name"`
	Mail            string `json:"mail"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type loginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Register creates an account.
//
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Account"
// @Success 201 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /auth/register [post]
func Register(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		u, err := users.Register(c.UserContext(), service.RegisterInput{
			Name:            req.Name,
			Mail:            req.Mail,
			Password:        req.Password,
			PasswordConfirm: req.PasswordConfirm,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// Login checks the credentials and starts a session. The token is returned in
// the body and set as an HTTP-only cookie.
//
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /auth/login [post]
func Login(users service.UserService, issuer *auth.Issuer, cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		u, err := users.Authenticate(c.UserContext(), service.LoginInput{Mail: req.Mail, Password: req.Password})
		if err != nil {
			return writeServiceError(c, err)
		}

		token, expiresAt, err := issuer.Issue(u)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			HTTPOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(loginResponse{Token: token, ExpiresAt: expiresAt, User: u})
	}
}

// Logout clears the session cookie. Bearer tokens simply expire.
//
// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func Logout(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
