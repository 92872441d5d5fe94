package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"officehub-backend/internal/model"
	"officehub-backend/internal/notify"
	"officehub-backend/internal/repository"

	"github.com/google/uuid"
)

type TokenIssuer interface {
	Issue(user *model.User, sessionID string) (string, error)
}

type PunchType string

const (
	PunchEntry PunchType = "entry"
	PunchExit  PunchType = "exit"
)

type LoginResult struct {
	Token      string
	User       *model.User
	LoginTime  *time.Time
	Status     model.Status
	Attendance *model.Attendance
}

// LogoutResult carries nil Attendance when the user had no record for the day.
type LogoutResult struct {
	User       *model.User
	Attendance *model.Attendance
}

// SessionUsecase keeps the session flag and the daily ledger in step. Login, Logout and
// MarkAttendance all open and close days through openDay and closeDay.
type SessionUsecase struct {
	store    *repository.Store
	tokens   TokenIssuer
	notifier notify.Notifier
	loc      *time.Location
	cutoff   Cutoff
}

func NewSessionUsecase(store *repository.Store, tokens TokenIssuer, notifier notify.Notifier, loc *time.Location, cutoff Cutoff) *SessionUsecase {
	if notifier == nil {
		notifier = notify.Discard
	}
	if loc == nil {
		loc = time.Local
	}
	return &SessionUsecase{store: store, tokens: tokens, notifier: notifier, loc: loc, cutoff: cutoff}
}

func (u *SessionUsecase) Login(ctx context.Context, userID uint, now time.Time) (*LoginResult, error) {
	now = now.In(u.loc)
	var result LoginResult
	var opened bool

	err := u.store.WithTx(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.FindByID(ctx, userID)
		if err != nil {
			return missing(err, "user", userID)
		}

		sessionID := uuid.NewString()
		swapped, err := tx.Users.SwapSession(ctx, userID, model.SessionInactive, model.SessionActive, sessionID)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrAlreadyActive
		}
		user.SessionState = model.SessionActive
		user.SessionID = sessionID

		record, created, err := u.openDay(ctx, tx, userID, now, model.SourceSession)
		if err != nil {
			return err
		}

		token, err := u.tokens.Issue(user, sessionID)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}

		result = LoginResult{
			Token:      token,
			User:       user,
			LoginTime:  record.LoginTime,
			Status:     record.Status,
			Attendance: record,
		}
		opened = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.emit(ctx, notify.Event{Type: notify.EventSessionLogin, UserID: userID, UserName: result.User.Name, Date: DayOf(now), At: now})
	if opened && result.Status == model.StatusLate {
		u.emitLate(ctx, result.User, now)
	}
	return &result, nil
}

func (u *SessionUsecase) Logout(ctx context.Context, userID uint, now time.Time) (*LogoutResult, error) {
	now = now.In(u.loc)
	var result LogoutResult

	err := u.store.WithTx(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.FindByID(ctx, userID)
		if err != nil {
			return missing(err, "user", userID)
		}

		swapped, err := tx.Users.SwapSession(ctx, userID, model.SessionActive, model.SessionInactive, "")
		if err != nil {
			return err
		}
		if !swapped {
			return ErrNotActive
		}
		user.SessionState = model.SessionInactive
		user.SessionID = ""
		result.User = user

		record, err := tx.Attendance.LockByUserAndDate(ctx, userID, DayOf(now))
		if errors.Is(err, repository.ErrNotFound) {
			// Logged out without a record for today: nothing to close.
			return nil
		}
		if err != nil {
			return err
		}

		record, _, err = u.closeDay(ctx, tx, record, now)
		if err != nil {
			return err
		}
		result.Attendance = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.emit(ctx, notify.Event{Type: notify.EventSessionLogout, UserID: userID, UserName: result.User.Name, Date: DayOf(now), At: now})
	return &result, nil
}

// MarkAttendance is the explicit punch: it works on the ledger without touching the session flag.
func (u *SessionUsecase) MarkAttendance(ctx context.Context, userID uint, punch PunchType, now time.Time) (*model.Attendance, error) {
	now = now.In(u.loc)
	var record *model.Attendance
	var user *model.User
	var opened bool

	err := u.store.WithTx(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.FindByID(ctx, userID)
		if err != nil {
			return missing(err, "user", userID)
		}

		switch punch {
		case PunchEntry:
			record, opened, err = u.openDay(ctx, tx, userID, now, model.SourcePunch)
			if err != nil {
				return err
			}
			if !opened {
				return ErrDuplicateRecord
			}
			return nil

		case PunchExit:
			record, err = tx.Attendance.LockByUserAndDate(ctx, userID, DayOf(now))
			if err != nil {
				return missing(err, "attendance for", DayOf(now))
			}
			if record.LogoutTime != nil {
				return ErrAlreadyClosed
			}
			if record.LoginTime == nil {
				return invalid("type", "no login recorded for today")
			}
			var closed bool
			record, closed, err = u.closeDay(ctx, tx, record, now)
			if err != nil {
				return err
			}
			if !closed {
				return ErrAlreadyClosed
			}
			return nil
		}
		return invalid("type", "must be entry or exit")
	})
	if err != nil {
		return nil, err
	}

	if opened && record.Status == model.StatusLate {
		u.emitLate(ctx, user, now)
	}
	return record, nil
}

// RevokeSession clears a session left open, e.g. when its token expired before logout.
// The ledger is not touched.
func (u *SessionUsecase) RevokeSession(ctx context.Context, userID uint, now time.Time) error {
	user, err := u.store.Users.FindByID(ctx, userID)
	if err != nil {
		return missing(err, "user", userID)
	}
	revoked, err := u.store.Users.SwapSession(ctx, userID, model.SessionActive, model.SessionInactive, "")
	if err != nil {
		return err
	}
	if revoked {
		u.emit(ctx, notify.Event{Type: notify.EventSessionRevoked, UserID: userID, UserName: user.Name, At: now.In(u.loc)})
	}
	return nil
}

// openDay makes sure the day has a login stamp. created reports whether this call set it.
func (u *SessionUsecase) openDay(ctx context.Context, tx *repository.Store, userID uint, now time.Time, source string) (*model.Attendance, bool, error) {
	day := DayOf(now)
	status := DeriveStatus(now, u.cutoff)
	loginTime := now

	record := &model.Attendance{
		UserID:    userID,
		Date:      day,
		LoginTime: &loginTime,
		Status:    status,
		Source:    source,
		CreatedBy: userID,
	}
	inserted, err := tx.Attendance.InsertIfAbsent(ctx, record)
	if err != nil {
		return nil, false, err
	}
	if inserted {
		return record, true, nil
	}

	// The day already exists. Fill the login stamp only if nobody has yet.
	stamped, err := tx.Attendance.SetLoginIfUnset(ctx, userID, day, now, status)
	if err != nil {
		return nil, false, err
	}
	existing, err := tx.Attendance.LockByUserAndDate(ctx, userID, day)
	if err != nil {
		return nil, false, err
	}
	return existing, stamped, nil
}

// closeDay stamps logout and worked hours once. Records without a login stay as they are.
func (u *SessionUsecase) closeDay(ctx context.Context, tx *repository.Store, record *model.Attendance, now time.Time) (*model.Attendance, bool, error) {
	if record.LogoutTime != nil || record.LoginTime == nil {
		return record, false, nil
	}
	hours := DeriveWorkedHours(*record.LoginTime, now)
	closed, err := tx.Attendance.SetLogoutIfUnset(ctx, record.ID, now, hours)
	if err != nil {
		return nil, false, err
	}
	fresh, err := tx.Attendance.LockByUserAndDate(ctx, record.UserID, record.Date)
	if err != nil {
		return nil, false, err
	}
	return fresh, closed, nil
}

func (u *SessionUsecase) emitLate(ctx context.Context, user *model.User, now time.Time) {
	u.emit(ctx, notify.Event{
		Type:     notify.EventLateArrival,
		UserID:   user.ID,
		UserName: user.Name,
		Date:     DayOf(now),
		At:       now,
		Message:  fmt.Sprintf("%s arrived after %02d:%02d", user.Name, u.cutoff.Hour, u.cutoff.Minute),
	})
}

func (u *SessionUsecase) emit(ctx context.Context, event notify.Event) {
	if err := u.notifier.Notify(ctx, event); err != nil {
		slog.WarnContext(ctx, "event delivery failed", "type", event.Type, "user_id", event.UserID, "error", err)
	}
}
