package usecase

import (
	"context"
	"errors"
	"strings"

	"officehub-backend/internal/model"
	"officehub-backend/internal/repository"
)

type RecordInput struct {
	UserID uint
	Date   string
	Status string
	Notes  string
}

type Correction struct {
	Status *string
	Notes  *string
}

// LedgerUsecase is the administrative side of the ledger: manual entries and corrections.
// Nothing here goes through status derivation.
type LedgerUsecase struct {
	store *repository.Store
}

func NewLedgerUsecase(store *repository.Store) *LedgerUsecase {
	return &LedgerUsecase{store: store}
}

func (u *LedgerUsecase) Get(ctx context.Context, id uint) (*model.Attendance, error) {
	record, err := u.store.Attendance.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "attendance", id)
	}
	return record, nil
}

// CreateRecord enters a day without a login, e.g. leave or absence.
func (u *LedgerUsecase) CreateRecord(ctx context.Context, actorID uint, input RecordInput) (*model.Attendance, error) {
	if input.UserID == 0 {
		return nil, invalid("userId", "required")
	}
	if input.Date == "" {
		return nil, invalid("date", "required")
	}
	day, err := parseDay("date", input.Date)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return nil, invalid("status", "required")
	}
	if _, err := u.store.Users.FindByID(ctx, input.UserID); err != nil {
		return nil, missing(err, "user", input.UserID)
	}

	record := &model.Attendance{
		UserID:    input.UserID,
		Date:      day,
		Status:    status,
		Notes:     input.Notes,
		Source:    model.SourceManual,
		CreatedBy: actorID,
	}
	if err := u.store.Attendance.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRecord
		}
		return nil, err
	}
	return record, nil
}

// UpdateRecord corrects status and/or notes. Login and logout stamps are never edited.
func (u *LedgerUsecase) UpdateRecord(ctx context.Context, id uint, correction Correction) (*model.Attendance, error) {
	var status *model.Status
	if correction.Status != nil {
		parsed, err := parseStatus(*correction.Status)
		if err != nil {
			return nil, err
		}
		if parsed != "" {
			status = &parsed
		}
	}
	if err := u.store.Attendance.Correct(ctx, id, status, correction.Notes); err != nil {
		return nil, missing(err, "attendance", id)
	}
	return u.Get(ctx, id)
}

func (u *LedgerUsecase) DeleteRecord(ctx context.Context, id uint) error {
	if err := u.store.Attendance.Delete(ctx, id); err != nil {
		return missing(err, "attendance", id)
	}
	return nil
}

func parseStatus(value string) (model.Status, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	status := model.Status(strings.ToLower(value))
	if !status.Valid() {
		return "", invalid("status", "must be one of present, late, absent, half-day, leave")
	}
	return status, nil
}
