package routes

import (
	"officehub-backend/internal/handler"
	"officehub-backend/internal/middleware"
	"officehub-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewUserHandler(deps.Users, deps.Sessions, deps.Now)

	api := app.Group("/api/users", middleware.Auth(deps.Tokens, deps.Store.Users))
	api.Get("/me", hdl.Me)

	// Admin
	api.Get("/", middleware.Permission(policy.ManageUsers), hdl.GetAll)
	api.Post("/", middleware.Permission(policy.ManageUsers), hdl.Create)

	// Self or admin
	api.Get("/:id", hdl.GetByID)
	api.Put("/:id", hdl.Update)

	// Admin
	api.Delete("/:id", middleware.Permission(policy.ManageUsers), hdl.Delete)
	api.Post("/:id/session/reset", middleware.Permission(policy.ResetSessions), hdl.ResetSession)
}
