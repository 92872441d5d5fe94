package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"officehub-backend/config"
	"officehub-backend/internal/auth"
	"officehub-backend/internal/model"
	"officehub-backend/internal/notify"
	"officehub-backend/internal/repository"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := config.OpenDatabase(config.Config{
		DBDriver:    "sqlite",
		DatabaseDSN: filepath.Join(t.TempDir(), "officehub.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

func seedUser(t *testing.T, store *repository.Store, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:         email,
		Email:        email,
		Password:     "x",
		Role:         role,
		SessionState: model.SessionInactive,
	}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, event notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type failingIssuer struct{}

func (failingIssuer) Issue(*model.User, string) (string, error) {
	return "", errors.New("signer unavailable")
}

func newSessions(store *repository.Store, notifier notify.Notifier) *SessionUsecase {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewSessionUsecase(store, tokens, notifier, time.UTC, DefaultCutoff)
}

func countRecords(t *testing.T, store *repository.Store, userID uint) int64 {
	t.Helper()
	_, total, err := store.Attendance.Search(context.Background(), repository.AttendanceFilter{UserID: &userID})
	require.NoError(t, err)
	return total
}
