package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"officehub-backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Attendance{}))
	return db
}

func createUser(t *testing.T, store *Store, email string) *model.User {
	t.Helper()
	user := &model.User{Name: email, Email: email, Password: "x", Role: model.RoleEmployee, SessionState: model.SessionInactive}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func TestInsertIfAbsentKeepsOnePerDay(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	user := createUser(t, store, "a@officehub.local")
	login := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	inserted, err := store.Attendance.InsertIfAbsent(ctx, &model.Attendance{UserID: user.ID, Date: "2024-03-01", LoginTime: &login, Status: model.StatusPresent})
	require.NoError(t, err)
	assert.True(t, inserted)

	later := login.Add(time.Hour)
	inserted, err = store.Attendance.InsertIfAbsent(ctx, &model.Attendance{UserID: user.ID, Date: "2024-03-01", LoginTime: &later, Status: model.StatusLate})
	require.NoError(t, err)
	assert.False(t, inserted)

	record, err := store.Attendance.FindByUserAndDate(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, record.LoginTime.Equal(login))
	assert.Equal(t, model.StatusPresent, record.Status)

	err = store.Attendance.Create(ctx, &model.Attendance{UserID: user.ID, Date: "2024-03-01", Status: model.StatusLeave})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestConditionalStamps(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	user := createUser(t, store, "b@officehub.local")

	record := &model.Attendance{UserID: user.ID, Date: "2024-03-01", Status: model.StatusLeave, Source: model.SourceManual}
	require.NoError(t, store.Attendance.Create(ctx, record))

	login := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	stamped, err := store.Attendance.SetLoginIfUnset(ctx, user.ID, "2024-03-01", login, model.StatusPresent)
	require.NoError(t, err)
	assert.True(t, stamped)
	stamped, err = store.Attendance.SetLoginIfUnset(ctx, user.ID, "2024-03-01", login.Add(time.Hour), model.StatusLate)
	require.NoError(t, err)
	assert.False(t, stamped)

	logout := login.Add(8 * time.Hour)
	closed, err := store.Attendance.SetLogoutIfUnset(ctx, record.ID, logout, 8)
	require.NoError(t, err)
	assert.True(t, closed)
	closed, err = store.Attendance.SetLogoutIfUnset(ctx, record.ID, logout.Add(time.Hour), 9)
	require.NoError(t, err)
	assert.False(t, closed)

	fresh, err := store.Attendance.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPresent, fresh.Status)
	assert.True(t, fresh.LogoutTime.Equal(logout))
	assert.InDelta(t, 8.0, fresh.WorkedHours, 1e-9)
	require.NotNil(t, fresh.User)
	assert.Equal(t, user.Email, fresh.User.Email)
}

func TestCorrectAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	user := createUser(t, store, "c@officehub.local")
	record := &model.Attendance{UserID: user.ID, Date: "2024-03-01", Status: model.StatusAbsent}
	require.NoError(t, store.Attendance.Create(ctx, record))

	late := model.StatusLate
	require.NoError(t, store.Attendance.Correct(ctx, record.ID, &late, nil))
	require.NoError(t, store.Attendance.Correct(ctx, record.ID, nil, nil))
	require.ErrorIs(t, store.Attendance.Correct(ctx, 999, &late, nil), ErrNotFound)
	require.ErrorIs(t, store.Attendance.Correct(ctx, 999, nil, nil), ErrNotFound)

	require.NoError(t, store.Attendance.Delete(ctx, record.ID))
	require.ErrorIs(t, store.Attendance.Delete(ctx, record.ID), ErrNotFound)
	_, err := store.Attendance.FindByID(ctx, record.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionSwapIsConditional(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	user := createUser(t, store, "d@officehub.local")

	swapped, err := store.Users.SwapSession(ctx, user.ID, model.SessionInactive, model.SessionActive, "sid-1")
	require.NoError(t, err)
	assert.True(t, swapped)
	swapped, err = store.Users.SwapSession(ctx, user.ID, model.SessionInactive, model.SessionActive, "sid-2")
	require.NoError(t, err)
	assert.False(t, swapped)

	stored, err := store.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", stored.SessionID)

	err = store.Users.Create(ctx, &model.User{Name: "dup", Email: "d@officehub.local", Password: "x", Role: model.RoleEmployee})
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = store.Users.FindByEmail(ctx, "missing@officehub.local")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	user := createUser(t, store, "e@officehub.local")
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.Users.SwapSession(ctx, user.ID, model.SessionInactive, model.SessionActive, "sid"); err != nil {
			return err
		}
		if err := tx.Attendance.Create(ctx, &model.Attendance{UserID: user.ID, Date: "2024-03-01", Status: model.StatusPresent}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := store.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionInactive, stored.SessionState)
	_, err = store.Attendance.FindByUserAndDate(ctx, user.ID, "2024-03-01")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	a := createUser(t, store, "f@officehub.local")
	b := createUser(t, store, "g@officehub.local")
	for _, day := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		require.NoError(t, store.Attendance.Create(ctx, &model.Attendance{UserID: a.ID, Date: day, Status: model.StatusPresent}))
	}
	require.NoError(t, store.Attendance.Create(ctx, &model.Attendance{UserID: b.ID, Date: "2024-03-02", Status: model.StatusAbsent}))

	list, total, err := store.Attendance.Search(ctx, AttendanceFilter{UserID: &a.ID, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-03", list[0].Date)

	list, total, err = store.Attendance.Search(ctx, AttendanceFilter{From: "2024-03-02", To: "2024-03-02", Ascending: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	_, total, err = store.Attendance.Search(ctx, AttendanceFilter{Status: model.StatusAbsent})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	between, err := store.Attendance.GetByUserBetween(ctx, a.ID, "2024-03-02", "")
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, "2024-03-02", between[0].Date)
}

func TestLockByUserAndDateInsideTx(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	user := createUser(t, store, "h@officehub.local")
	login := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Attendance.Create(ctx, &model.Attendance{UserID: user.ID, Date: "2024-03-01", LoginTime: &login, Status: model.StatusPresent}))

	err := store.WithTx(ctx, func(tx *Store) error {
		inserted, err := tx.Attendance.InsertIfAbsent(ctx, &model.Attendance{UserID: user.ID, Date: "2024-03-01", Status: model.StatusLate})
		require.NoError(t, err)
		assert.False(t, inserted)

		record, err := tx.Attendance.LockByUserAndDate(ctx, user.ID, "2024-03-01")
		require.NoError(t, err)
		assert.True(t, record.LoginTime.Equal(login))

		_, err = tx.Attendance.LockByUserAndDate(ctx, user.ID, "2024-03-02")
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestDayQueryLocksOnServerDatabases(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/officehub?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	repo := &attendanceRepository{db: db}

	var record model.Attendance
	locked := repo.dayQuery(context.Background(), 1, "2024-03-01", true).Find(&record).Statement.SQL.String()
	assert.Contains(t, locked, "FOR UPDATE")

	plain := repo.dayQuery(context.Background(), 1, "2024-03-01", false).Find(&record).Statement.SQL.String()
	assert.NotContains(t, plain, "FOR UPDATE")

	sqliteRepo := &attendanceRepository{db: openTestDB(t).Session(&gorm.Session{DryRun: true})}
	assert.NotContains(t, sqliteRepo.dayQuery(context.Background(), 1, "2024-03-01", true).Find(&record).Statement.SQL.String(), "FOR UPDATE")
}
