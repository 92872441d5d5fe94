package routes

import (
	"officehub-backend/internal/handler"
	"officehub-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewAuthHandler(deps.Users, deps.Sessions, deps.Now)

	api := app.Group("/api/auth")
	api.Post("/register", hdl.Register)
	api.Post("/login", hdl.Login)
	api.Post("/logout", middleware.LogoutAuth(deps.Tokens, deps.Store.Users), hdl.Logout)
}
