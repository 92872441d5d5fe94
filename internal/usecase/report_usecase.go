package usecase

import (
	"context"
	"time"

	"officehub-backend/internal/model"
	"officehub-backend/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Summary struct {
	TotalDays    int     `json:"totalDays"`
	PresentDays  int     `json:"presentDays"`
	LateDays     int     `json:"lateDays"`
	AbsentDays   int     `json:"absentDays"`
	HalfDays     int     `json:"halfDays"`
	LeaveDays    int     `json:"leaveDays"`
	AverageHours float64 `json:"averageHours"`
}

type ReportEntry struct {
	Date        string
	Status      model.Status
	LoginTime   *time.Time
	LogoutTime  *time.Time
	WorkedHours float64
}

type MonthlyReport struct {
	Year    int
	Month   time.Month
	Entries []ReportEntry
}

type SearchQuery struct {
	UserID    *uint
	StartDate string
	EndDate   string
	Status    string
	Ascending bool
	Page      int
	Limit     int
}

type Page struct {
	Records []model.Attendance `json:"attendance"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
}

// ReportUsecase only reads the ledger.
type ReportUsecase struct {
	attendance repository.AttendanceRepository
	loc        *time.Location
}

func NewReportUsecase(attendance repository.AttendanceRepository, loc *time.Location) *ReportUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUsecase{attendance: attendance, loc: loc}
}

func (u *ReportUsecase) Summary(ctx context.Context, userID uint, startDate, endDate string) (*Summary, error) {
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	records, err := u.attendance.GetByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return Summarize(records), nil
}

// Summarize counts days per status. An empty slice gives all zeros.
func Summarize(records []model.Attendance) *Summary {
	summary := &Summary{TotalDays: len(records)}
	var hours float64
	for _, r := range records {
		switch r.Status {
		case model.StatusPresent:
			summary.PresentDays++
		case model.StatusLate:
			summary.LateDays++
		case model.StatusAbsent:
			summary.AbsentDays++
		case model.StatusHalfDay:
			summary.HalfDays++
		case model.StatusLeave:
			summary.LeaveDays++
		}
		hours += r.WorkedHours
	}
	if len(records) > 0 {
		summary.AverageHours = hours / float64(len(records))
	}
	return summary
}

func (u *ReportUsecase) MonthlyReport(ctx context.Context, userID uint, year, month int) (*MonthlyReport, error) {
	if year < 1 || year > 9999 {
		return nil, invalid("year", "out of range")
	}
	if month < 1 || month > 12 {
		return nil, invalid("month", "must be 1-12")
	}
	from, to := MonthBounds(year, time.Month(month))
	records, err := u.attendance.GetByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{Year: year, Month: time.Month(month), Entries: make([]ReportEntry, 0, len(records))}
	for _, r := range records {
		report.Entries = append(report.Entries, ReportEntry{
			Date:        r.Date,
			Status:      r.Status,
			LoginTime:   u.local(r.LoginTime),
			LogoutTime:  u.local(r.LogoutTime),
			WorkedHours: r.WorkedHours,
		})
	}
	return report, nil
}

// Weekly lists the records from the start of now's week through now's day.
func (u *ReportUsecase) Weekly(ctx context.Context, userID uint, now time.Time) ([]model.Attendance, error) {
	now = now.In(u.loc)
	return u.attendance.GetByUserBetween(ctx, userID, WeekStart(now), DayOf(now))
}

func (u *ReportUsecase) Search(ctx context.Context, q SearchQuery) (*Page, error) {
	from, to, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(q.Status)
	if err != nil {
		return nil, err
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	records, total, err := u.attendance.Search(ctx, repository.AttendanceFilter{
		UserID:    q.UserID,
		From:      from,
		To:        to,
		Status:    status,
		Ascending: q.Ascending,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Attendance{}
	}
	return &Page{Records: records, Total: total, Page: page, Limit: limit}, nil
}

func (u *ReportUsecase) local(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(u.loc)
	return &v
}

func parseRange(startDate, endDate string) (string, string, error) {
	from, err := parseDay("startDate", startDate)
	if err != nil {
		return "", "", err
	}
	to, err := parseDay("endDate", endDate)
	if err != nil {
		return "", "", err
	}
	if from != "" && to != "" && from > to {
		return "", "", invalid("endDate", "before startDate")
	}
	return from, to, nil
}
