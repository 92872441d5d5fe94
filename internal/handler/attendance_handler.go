package handler

import (
	"strconv"
	"strings"
	"time"

	"officehub-backend/internal/middleware"
	"officehub-backend/internal/model"
	"officehub-backend/internal/policy"
	"officehub-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

const clockLayout = "15:04:05"

type AttendanceHandler struct {
	sessions *usecase.SessionUsecase
	ledger   *usecase.LedgerUsecase
	reports  *usecase.ReportUsecase
	now      func() time.Time
}

func NewAttendanceHandler(sessions *usecase.SessionUsecase, ledger *usecase.LedgerUsecase, reports *usecase.ReportUsecase, now func() time.Time) *AttendanceHandler {
	if now == nil {
		now = time.Now
	}
	return &AttendanceHandler{sessions: sessions, ledger: ledger, reports: reports, now: now}
}

// MarkLogin is the explicit entry punch. It does not open a session.
func (h *AttendanceHandler) MarkLogin(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	record, err := h.sessions.MarkAttendance(c.UserContext(), user.ID, usecase.PunchEntry, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "login time marked", "data": record})
}

func (h *AttendanceHandler) MarkLogout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	record, err := h.sessions.MarkAttendance(c.UserContext(), user.ID, usecase.PunchExit, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "logout time marked", "data": record})
}

// GetAll lists the caller's records. Viewers of all attendance may pass userId, or omit
// it with all=true to see everyone.
func (h *AttendanceHandler) GetAll(c *fiber.Ctx) error {
	query, err := h.searchQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	if c.QueryBool("all") && h.canViewAll(c) && c.Query("userId") == "" {
		query.UserID = nil
	}
	return h.search(c, query)
}

func (h *AttendanceHandler) GetByDate(c *fiber.Ctx) error {
	query, err := h.searchQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	if c.Query("userId") == "" {
		query.UserID = nil
	}
	query.StartDate = c.Params("date")
	query.EndDate = c.Params("date")
	return h.search(c, query)
}

func (h *AttendanceHandler) GetByUser(c *fiber.Ctx) error {
	id, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	query, err := h.searchQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	query.UserID = &id
	return h.search(c, query)
}

func (h *AttendanceHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	record, err := h.ledger.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if record.UserID != middleware.CurrentUser(c).ID && !h.canViewAll(c) {
		return respondError(c, usecase.ErrUnauthorized)
	}
	return c.JSON(fiber.Map{"data": record})
}

func (h *AttendanceHandler) Summary(c *fiber.Ctx) error {
	userID, err := h.targetUser(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.reports.Summary(c.UserContext(), userID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": summary})
}

func (h *AttendanceHandler) Weekly(c *fiber.Ctx) error {
	userID, err := h.targetUser(c)
	if err != nil {
		return respondError(c, err)
	}
	records, err := h.reports.Weekly(c.UserContext(), userID, h.now())
	if err != nil {
		return respondError(c, err)
	}
	if records == nil {
		records = []model.Attendance{}
	}
	return c.JSON(fiber.Map{"data": records})
}

func (h *AttendanceHandler) Monthly(c *fiber.Ctx) error {
	userID, err := h.targetUser(c)
	if err != nil {
		return respondError(c, err)
	}
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return respondError(c, badRequest("year", "must be a number"))
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil {
		return respondError(c, badRequest("month", "must be a number"))
	}

	report, err := h.reports.MonthlyReport(c.UserContext(), userID, year, month)
	if err != nil {
		return respondError(c, err)
	}

	entries := make([]fiber.Map, 0, len(report.Entries))
	for _, e := range report.Entries {
		entries = append(entries, fiber.Map{
			"date":        e.Date,
			"status":      e.Status,
			"loginTime":   clock(e.LoginTime),
			"logoutTime":  clock(e.LogoutTime),
			"workedHours": e.WorkedHours,
		})
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"month":            report.Month.String() + " " + strconv.Itoa(report.Year),
			"year":             report.Year,
			"monthNumber":      int(report.Month),
			"totalWorkingDays": len(report.Entries),
			"attendance":       entries,
		},
	})
}

func (h *AttendanceHandler) CreateRecord(c *fiber.Ctx) error {
	var input struct {
		UserID uint   `json:"userId"`
		Date   string `json:"date"`
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, badRequest("body", "invalid JSON"))
	}

	record, err := h.ledger.CreateRecord(c.UserContext(), middleware.CurrentUser(c).ID, usecase.RecordInput{
		UserID: input.UserID,
		Date:   input.Date,
		Status: input.Status,
		Notes:  input.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "attendance record created", "data": record})
}

func (h *AttendanceHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, badRequest("body", "invalid JSON"))
	}

	record, err := h.ledger.UpdateRecord(c.UserContext(), id, usecase.Correction{Status: input.Status, Notes: input.Notes})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "attendance updated", "data": record})
}

func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.ledger.DeleteRecord(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "attendance deleted"})
}

func (h *AttendanceHandler) search(c *fiber.Ctx, query usecase.SearchQuery) error {
	page, err := h.reports.Search(c.UserContext(), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": page})
}

func (h *AttendanceHandler) searchQuery(c *fiber.Ctx) (usecase.SearchQuery, error) {
	userID, err := h.targetUser(c)
	if err != nil {
		return usecase.SearchQuery{}, err
	}
	return usecase.SearchQuery{
		UserID:    &userID,
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Status:    c.Query("status"),
		Ascending: strings.EqualFold(c.Query("sort"), "asc"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 0),
	}, nil
}

// targetUser is the caller unless a viewer of all attendance names someone else.
func (h *AttendanceHandler) targetUser(c *fiber.Ctx) (uint, error) {
	self := middleware.CurrentUser(c).ID
	raw := c.Query("userId")
	if raw == "" {
		return self, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("userId", "must be a positive number")
	}
	if uint(id) != self && !h.canViewAll(c) {
		return 0, usecase.ErrUnauthorized
	}
	return uint(id), nil
}

func (h *AttendanceHandler) canViewAll(c *fiber.Ctx) bool {
	return policy.Allows(middleware.CurrentUser(c).Role, policy.ViewAllAttendance)
}

func clock(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(clockLayout)
}
