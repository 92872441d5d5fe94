package handler

import (
	"time"

	"officehub-backend/internal/middleware"
	"officehub-backend/internal/policy"
	"officehub-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users    *usecase.UserUsecase
	sessions *usecase.SessionUsecase
	now      func() time.Time
}

func NewUserHandler(users *usecase.UserUsecase, sessions *usecase.SessionUsecase, now func() time.Time) *UserHandler {
	if now == nil {
		now = time.Now
	}
	return &UserHandler{users: users, sessions: sessions, now: now}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": middleware.CurrentUser(c)})
}

// GetByID is open to the user themself and to admins.
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := h.selfOrAdmin(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": user})
}

// Update changes profile fields only. Role and session state in the body are ignored.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := h.selfOrAdmin(c)
	if err != nil {
		return respondError(c, err)
	}
	var input struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Category *string `json:"category"`
	}
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, badRequest("body", "invalid JSON"))
	}

	user, err := h.users.Update(c.UserContext(), id, usecase.ProfileUpdate{
		Name:     input.Name,
		Email:    input.Email,
		Category: input.Category,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user updated", "data": user})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext(), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": users})
}

// Create is the administrative path: unlike Register it accepts a role.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, badRequest("body", "invalid JSON"))
	}

	user, err := h.users.Create(c.UserContext(), usecase.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Category: input.Category,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "user created", "data": user})
}

func (h *UserHandler) ResetSession(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.sessions.RevokeSession(c.UserContext(), id, h.now()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "session reset"})
}

func (h *UserHandler) selfOrAdmin(c *fiber.Ctx) (uint, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return 0, err
	}
	caller := middleware.CurrentUser(c)
	if caller.ID != id && !policy.IsAdmin(caller.Role) {
		return 0, usecase.ErrUnauthorized
	}
	return id, nil
}
