package routes

import (
	"time"

	"officehub-backend/config"
	"officehub-backend/internal/auth"
	"officehub-backend/internal/notify"
	"officehub-backend/internal/repository"
	"officehub-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// Dependencies is everything the route setup functions share.
type Dependencies struct {
	Store    *repository.Store
	Tokens   *auth.TokenService
	Users    *usecase.UserUsecase
	Sessions *usecase.SessionUsecase
	Ledger   *usecase.LedgerUsecase
	Reports  *usecase.ReportUsecase
	Now      func() time.Time
}

func Build(db *gorm.DB, cfg config.Config, notifier notify.Notifier) (*Dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.Cutoff()
	if err != nil {
		return nil, err
	}

	store := repository.NewStore(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTL))
	return &Dependencies{
		Store:    store,
		Tokens:   tokens,
		Users:    usecase.NewUserUsecase(store.Users),
		Sessions: usecase.NewSessionUsecase(store, tokens, notifier, loc, usecase.Cutoff{Hour: hour, Minute: minute}),
		Ledger:   usecase.NewLedgerUsecase(store),
		Reports:  usecase.NewReportUsecase(store.Attendance, loc),
		Now:      time.Now,
	}, nil
}

func NewApp(cfg config.Config, deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "officehub"})

	// Global middleware
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, deps)
	SetupUserRoutes(app, deps)
	SetupAttendanceRoutes(app, deps)
	return app
}
