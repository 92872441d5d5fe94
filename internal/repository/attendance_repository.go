package repository

import (
	"context"
	"time"

	"officehub-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceFilter struct {
	UserID    *uint
	From      string // inclusive, YYYY-MM-DD
	To        string // inclusive, YYYY-MM-DD
	Status    model.Status
	Ascending bool
	Offset    int
	Limit     int
}

type AttendanceRepository interface {
	// Create inserts a record; an existing (user, date) pair yields ErrDuplicate.
	Create(ctx context.Context, attendance *model.Attendance) error
	// InsertIfAbsent inserts unless (user, date) is taken and reports whether it did.
	InsertIfAbsent(ctx context.Context, attendance *model.Attendance) (bool, error)
	SetLoginIfUnset(ctx context.Context, userID uint, date string, at time.Time, status model.Status) (bool, error)
	SetLogoutIfUnset(ctx context.Context, id uint, at time.Time, workedHours float64) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.Attendance, error)
	FindByUserAndDate(ctx context.Context, userID uint, date string) (*model.Attendance, error)
	// LockByUserAndDate is FindByUserAndDate as a locking read. Inside a transaction it sees rows
	// committed after the transaction's snapshot was taken.
	LockByUserAndDate(ctx context.Context, userID uint, date string) (*model.Attendance, error)
	GetByUserBetween(ctx context.Context, userID uint, from, to string) ([]model.Attendance, error)
	Correct(ctx context.Context, id uint, status *model.Status, notes *string) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	return translate(r.db.WithContext(ctx).Create(attendance).Error)
}

func (r *attendanceRepository) InsertIfAbsent(ctx context.Context, attendance *model.Attendance) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(attendance)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *attendanceRepository) SetLoginIfUnset(ctx context.Context, userID uint, date string, at time.Time, status model.Status) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Where("user_id = ? AND date = ? AND login_time IS NULL", userID, date).
		Updates(map[string]interface{}{"login_time": at, "status": status})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *attendanceRepository) SetLogoutIfUnset(ctx context.Context, id uint, at time.Time, workedHours float64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Where("id = ? AND logout_time IS NULL", id).
		Updates(map[string]interface{}{"logout_time": at, "worked_hours": workedHours})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *attendanceRepository) FindByID(ctx context.Context, id uint) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := r.db.WithContext(ctx).Preload("User").First(&attendance, id).Error; err != nil {
		return nil, translate(err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) FindByUserAndDate(ctx context.Context, userID uint, date string) (*model.Attendance, error) {
	return r.firstOfDay(r.dayQuery(ctx, userID, date, false))
}

func (r *attendanceRepository) LockByUserAndDate(ctx context.Context, userID uint, date string) (*model.Attendance, error) {
	return r.firstOfDay(r.dayQuery(ctx, userID, date, true))
}

func (r *attendanceRepository) dayQuery(ctx context.Context, userID uint, date string, lock bool) *gorm.DB {
	query := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date)
	// SQLite has no row locks; its single writer already serializes transactions.
	if lock && r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

func (r *attendanceRepository) firstOfDay(query *gorm.DB) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := query.First(&attendance).Error; err != nil {
		return nil, translate(err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) GetByUserBetween(ctx context.Context, userID uint, from, to string) ([]model.Attendance, error) {
	var list []model.Attendance
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}
	err := query.Order("date asc").Find(&list).Error
	return list, err
}

func (r *attendanceRepository) Correct(ctx context.Context, id uint, status *model.Status, notes *string) error {
	updates := map[string]interface{}{}
	if status != nil {
		updates["status"] = *status
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if len(updates) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}
	result := r.db.WithContext(ctx).Model(&model.Attendance{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 for a no-op update, so tell "missing" apart from "unchanged".
		_, err := r.FindByID(ctx, id)
		return err
	}
	return nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Attendance{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *attendanceRepository) Search(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Attendance{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	// Session so Count and Find each get their own copy of the conditions.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date desc, login_time desc"
	if filter.Ascending {
		order = "date asc, login_time asc"
	}
	page := query.Preload("User").Order(order)
	if filter.Offset > 0 {
		page = page.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}
	var list []model.Attendance
	err := page.Find(&list).Error
	return list, total, err
}
