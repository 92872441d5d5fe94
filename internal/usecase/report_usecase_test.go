package usecase

import (
	"context"
	"testing"
	"time"

	"officehub-backend/internal/model"
	"officehub-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workDay logs the user in and out through the session flow.
func workDay(t *testing.T, sessions *SessionUsecase, userID uint, day, in, out string) {
	t.Helper()
	ctx := context.Background()
	_, err := sessions.Login(ctx, userID, at(day, in))
	require.NoError(t, err)
	_, err = sessions.Logout(ctx, userID, at(day, out))
	require.NoError(t, err)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, Summary{}, *summary)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "sum@officehub.local", model.RoleEmployee)
	sessions := newSessions(store, nil)
	ledger := NewLedgerUsecase(store)
	reports := NewReportUsecase(store.Attendance, time.UTC)

	workDay(t, sessions, user.ID, "2024-03-01", "08:00:00", "16:00:00")
	workDay(t, sessions, user.ID, "2024-03-04", "09:30:00", "13:30:00")
	_, err := ledger.CreateRecord(ctx, user.ID, RecordInput{UserID: user.ID, Date: "2024-03-05", Status: "leave"})
	require.NoError(t, err)
	_, err = ledger.CreateRecord(ctx, user.ID, RecordInput{UserID: user.ID, Date: "2024-04-01", Status: "absent"})
	require.NoError(t, err)

	summary, err := reports.Summary(ctx, user.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalDays)
	assert.Equal(t, 1, summary.PresentDays)
	assert.Equal(t, 1, summary.LateDays)
	assert.Equal(t, 1, summary.LeaveDays)
	assert.Zero(t, summary.AbsentDays)
	assert.InDelta(t, 4.0, summary.AverageHours, 1e-9)

	all, err := reports.Summary(ctx, user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, all.TotalDays)
	assert.Equal(t, 1, all.AbsentDays)

	nobody, err := reports.Summary(ctx, 999, "", "")
	require.NoError(t, err)
	assert.Equal(t, Summary{}, *nobody)

	_, err = reports.Summary(ctx, user.ID, "2024-03-31", "2024-03-01")
	require.ErrorIs(t, err, ErrValidation)
}

func TestMonthlyReport(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "month@officehub.local", model.RoleEmployee)
	sessions := newSessions(store, nil)
	jakarta := time.FixedZone("WIB", 7*60*60)
	reports := NewReportUsecase(store.Attendance, jakarta)

	workDay(t, sessions, user.ID, "2024-02-29", "08:00:00", "16:00:00")
	workDay(t, sessions, user.ID, "2024-03-15", "08:00:00", "16:00:00")
	workDay(t, sessions, user.ID, "2024-03-01", "08:00:00", "17:00:00")
	workDay(t, sessions, user.ID, "2024-04-01", "08:00:00", "16:00:00")

	report, err := reports.MonthlyReport(ctx, user.ID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, time.March, report.Month)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, "2024-03-01", report.Entries[0].Date)
	assert.Equal(t, "2024-03-15", report.Entries[1].Date)
	assert.InDelta(t, 9.0, report.Entries[0].WorkedHours, 1e-9)
	assert.Equal(t, 15, report.Entries[0].LoginTime.Hour(), "times are shown in the office zone")

	empty, err := reports.MonthlyReport(ctx, user.ID, 2023, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)

	_, err = reports.MonthlyReport(ctx, user.ID, 2024, 13)
	require.ErrorIs(t, err, ErrValidation)
	_, err = reports.MonthlyReport(ctx, user.ID, 0, 1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestWeekly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "week@officehub.local", model.RoleEmployee)
	sessions := newSessions(store, nil)
	reports := NewReportUsecase(store.Attendance, time.UTC)

	// 2024-03-03 is a Sunday.
	workDay(t, sessions, user.ID, "2024-03-02", "08:00:00", "16:00:00")
	workDay(t, sessions, user.ID, "2024-03-04", "08:00:00", "16:00:00")
	workDay(t, sessions, user.ID, "2024-03-06", "08:00:00", "16:00:00")

	records, err := reports.Weekly(ctx, user.ID, at("2024-03-05", "12:00:00"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-04", records[0].Date)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := seedUser(t, store, "alice@officehub.local", model.RoleEmployee)
	bob := seedUser(t, store, "bob@officehub.local", model.RoleEmployee)
	sessions := newSessions(store, nil)
	reports := NewReportUsecase(store.Attendance, time.UTC)

	for _, day := range []string{"2024-03-01", "2024-03-04", "2024-03-05"} {
		workDay(t, sessions, alice.ID, day, "08:00:00", "16:00:00")
	}
	workDay(t, sessions, bob.ID, "2024-03-04", "09:45:00", "16:00:00")

	page, err := reports.Search(ctx, SearchQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	require.Len(t, page.Records, 4)
	assert.Equal(t, "2024-03-05", page.Records[0].Date, "newest first")

	page, err = reports.Search(ctx, SearchQuery{UserID: &alice.ID, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "2024-03-01", page.Records[0].Date)

	page, err = reports.Search(ctx, SearchQuery{Status: "LATE"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, bob.ID, page.Records[0].UserID)
	require.NotNil(t, page.Records[0].User)
	assert.Equal(t, "bob@officehub.local", page.Records[0].User.Email)

	page, err = reports.Search(ctx, SearchQuery{StartDate: "2024-03-04", EndDate: "2024-03-04", Ascending: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = reports.Search(ctx, SearchQuery{StartDate: "2025-01-01", Limit: 500})
	require.NoError(t, err)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
	assert.Equal(t, 100, page.Limit)

	_, err = reports.Search(ctx, SearchQuery{Status: "vacation"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = reports.Search(ctx, SearchQuery{StartDate: "March"})
	require.ErrorIs(t, err, ErrValidation)
}

var _ repository.AttendanceRepository = (*fakeAttendanceRepository)(nil)

// fakeAttendanceRepository feeds Summary without a database.
type fakeAttendanceRepository struct {
	repository.AttendanceRepository
	records []model.Attendance
	from    string
	to      string
}

func (f *fakeAttendanceRepository) GetByUserBetween(_ context.Context, _ uint, from, to string) ([]model.Attendance, error) {
	f.from, f.to = from, to
	return f.records, nil
}

func TestSummaryAveragesOverAllDays(t *testing.T) {
	fake := &fakeAttendanceRepository{records: []model.Attendance{
		{Status: model.StatusPresent, WorkedHours: 8},
		{Status: model.StatusHalfDay, WorkedHours: 4},
		{Status: model.StatusAbsent},
	}}
	reports := NewReportUsecase(fake, time.UTC)

	summary, err := reports.Summary(context.Background(), 1, "2024-03-01", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", fake.from)
	assert.Empty(t, fake.to)
	assert.Equal(t, 3, summary.TotalDays)
	assert.Equal(t, 1, summary.HalfDays)
	assert.InDelta(t, 4.0, summary.AverageHours, 1e-9)
}
