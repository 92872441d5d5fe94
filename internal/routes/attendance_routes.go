package routes

import (
	"officehub-backend/internal/handler"
	"officehub-backend/internal/middleware"
	"officehub-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendanceRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewAttendanceHandler(deps.Sessions, deps.Ledger, deps.Reports, deps.Now)

	api := app.Group("/api/attendance", middleware.Auth(deps.Tokens, deps.Store.Users))

	// Punch
	api.Post("/login", hdl.MarkLogin)
	api.Post("/logout", hdl.MarkLogout)

	// Reports, own records unless the caller may view all
	api.Get("/", hdl.GetAll)
	api.Get("/summary", hdl.Summary)
	api.Get("/weekly", hdl.Weekly)
	api.Get("/monthly/:year/:month", hdl.Monthly)
	api.Get("/date/:date", middleware.Permission(policy.ViewAllAttendance), hdl.GetByDate)
	api.Get("/user/:userId", middleware.Permission(policy.ViewAllAttendance), hdl.GetByUser)
	api.Get("/:id", hdl.GetByID) // keep after the fixed paths

	// Admin ledger edits
	api.Post("/records", middleware.Permission(policy.EditAttendance), hdl.CreateRecord)
	api.Put("/:id", middleware.Permission(policy.EditAttendance), hdl.Update)
	api.Delete("/:id", middleware.Permission(policy.DeleteAttendance), hdl.Delete)
}
