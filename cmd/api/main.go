package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"officehub-backend/config"
	"officehub-backend/internal/notify"
	"officehub-backend/internal/routes"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("officehub-api", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	addr := flags.String("addr", "", "listen address, overrides HTTP_ADDR")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	// 1. Load .env, then config
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using system environment")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	logger := config.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	// 2. Database
	db, err := config.OpenDatabase(cfg)
	if err != nil {
		slog.Error("connect database", "error", err)
		os.Exit(1)
	}

	// 3. Event sinks
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	notifier, drain := newNotifier(ctx, cfg, logger)
	defer drain()

	// 4. Routes
	deps, err := routes.Build(db, cfg, notifier)
	if err != nil {
		slog.Error("build dependencies", "error", err)
		os.Exit(1)
	}
	app := routes.NewApp(cfg, deps)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("server ready", "addr", cfg.HTTPAddr)
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		slog.Error("listen", "error", err)
		os.Exit(1)
	}
}

// newNotifier always logs events; Redis and mail are added when configured and delivered off
// the request path. drain waits for deliveries still in flight.
func newNotifier(ctx context.Context, cfg config.Config, logger *slog.Logger) (notify.Notifier, func()) {
	sinks := notify.Multi{notify.NewLogNotifier(logger)}
	var remote []*notify.Async

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis unreachable, events will not be published", "addr", cfg.RedisAddr, "error", err)
			client.Close()
		} else {
			remote = append(remote, notify.NewAsync(notify.NewRedisNotifier(client, cfg.RedisChannel), 3*time.Second))
		}
	}

	if cfg.SMTPHost != "" && len(cfg.MailTo) > 0 {
		mailer := notify.NewMailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailTo)
		remote = append(remote, notify.NewAsync(mailer, 15*time.Second))
	}

	for _, n := range remote {
		sinks = append(sinks, n)
	}
	return sinks, func() {
		for _, n := range remote {
			n.Wait()
		}
	}
}
