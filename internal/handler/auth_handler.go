package handler

import (
	"time"

	"officehub-backend/internal/middleware"
	"officehub-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	users    *usecase.UserUsecase
	sessions *usecase.SessionUsecase
	now      func() time.Time
}

func NewAuthHandler(users *usecase.UserUsecase, sessions *usecase.SessionUsecase, now func() time.Time) *AuthHandler {
	if now == nil {
		now = time.Now
	}
	return &AuthHandler{users: users, sessions: sessions, now: now}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, badRequest("body", "invalid JSON"))
	}

	user, err := h.users.Register(c.UserContext(), usecase.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Category: input.Category,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "user registered", "data": user})
}

// Login checks the credentials, then opens the session and today's attendance together.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, badRequest("body", "invalid JSON"))
	}

	user, err := h.users.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}
	result, err := h.sessions.Login(c.UserContext(), user.ID, h.now())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "login successful",
		"data": fiber.Map{
			"token": result.Token,
			"user":  result.User,
			"attendance": fiber.Map{
				"id":        result.Attendance.ID,
				"date":      result.Attendance.Date,
				"loginTime": result.LoginTime,
				"status":    result.Status,
			},
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	result, err := h.sessions.Logout(c.UserContext(), user.ID, h.now())
	if err != nil {
		return respondError(c, err)
	}

	var attendance interface{}
	if result.Attendance != nil {
		attendance = fiber.Map{
			"id":          result.Attendance.ID,
			"date":        result.Attendance.Date,
			"loginTime":   result.Attendance.LoginTime,
			"logoutTime":  result.Attendance.LogoutTime,
			"workedHours": result.Attendance.WorkedHours,
			"status":      result.Attendance.Status,
		}
	}
	return c.JSON(fiber.Map{"message": "logout successful", "data": fiber.Map{"attendance": attendance}})
}
