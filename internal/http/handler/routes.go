package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docmanager/internal/auth"
	"docmanager/internal/config"
	"docmanager/internal/http/middleware"
	"docmanager/internal/service"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DB        *sql.DB
	Documents service.DocumentService
	Users     service.UserService
	Issuer    *auth.Issuer
	Auth      config.AuthConfig
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Document routes sit behind middleware.RequireAuth.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	a := app.Group("/auth")
	a.Post("/register", Register(d.Users))
	a.Post("/login", Login(d.Users, d.Issuer, d.Auth))
	a.Post("/logout", Logout(d.Auth))

	requireAuth := middleware.RequireAuth(d.Issuer, d.Auth.CookieName)

	docs := app.Group("/documents", requireAuth)
	docs.Get("/tree", GetTree(d.Documents))
	docs.Get("/directories", GetDirectoryTree(d.Documents))
	docs.Post("", CreateDocument(d.Documents))
	docs.Get("/:id", GetDocument(d.Documents))
	docs.Post("/:id/move", MoveDocument(d.Documents))

	app.Get("/directories/:id/files", requireAuth, ListFiles(d.Documents))
}
