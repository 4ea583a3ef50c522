package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/resolveit/complaint-service/internal/api/http"
	"github.com/resolveit/complaint-service/internal/api/http/handlers"
	"github.com/resolveit/complaint-service/internal/auth"
	"github.com/resolveit/complaint-service/internal/config"
	"github.com/resolveit/complaint-service/internal/events"
	"github.com/resolveit/complaint-service/internal/mail"
	"github.com/resolveit/complaint-service/internal/observability"
	"github.com/resolveit/complaint-service/internal/persistence"
	"github.com/resolveit/complaint-service/internal/repository"
	"github.com/resolveit/complaint-service/internal/repository/memory"
	"github.com/resolveit/complaint-service/internal/service"
	"github.com/resolveit/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.PoolHandle() != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	metrics := observability.NewMetrics()

	var mailer mail.Mailer
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	} else {
		mailer = mail.NewLogMailer(logger)
	}
	mailWorker := worker.NewMailWorker(mailer, logger, metrics, cfg.Mail.QueueSize)
	mailWorker.Start(ctx)

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(repos.users, mailWorker, logger)
	notifications.RegisterHandlers(dispatcher)

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: repos.complaints,
		HistoryRepo:   repos.history,
		NoteRepo:      repos.notes,
		UserRepo:      repos.users,
		Dispatcher:    dispatcher,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          repos.users,
		PasswordResetRepo: repos.resets,
		Outbox:            mailWorker,
	})
	statsService := service.NewStatsService(service.StatsDependencies{
		ComplaintRepo: repos.complaints,
		Cache:         redis.ClientHandle(),
		CacheTTL:      cfg.Stats.CacheTTL(),
		Logger:        logger,
	})

	if cfg.Escalation.Enabled {
		escalationService := service.NewEscalationService(service.EscalationDependencies{
			ComplaintRepo: repos.complaints,
			HistoryRepo:   repos.history,
			Dispatcher:    dispatcher,
			Logger:        logger,
		})
		worker.StartEscalationWorker(ctx, escalationService, cfg.Escalation.Interval(), logger)
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.users)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:           handlers.NewUsersHandler(authService),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		StaffComplaints: handlers.NewStaffComplaintsHandler(complaintService, statsService),
		AuthMiddleware:  authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	mailWorker.Wait()
}

type repositories struct {
	complaints repository.ComplaintRepository
	history    repository.StatusHistoryRepository
	notes      repository.InternalNoteRepository
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
}

// buildRepositories picks pgx-backed repositories when a pool is available
// and falls back to in-memory stores for DSN-less development runs.
func buildRepositories(pg *persistence.Postgres) repositories {
	pool := pg.PoolHandle()
	if pool == nil {
		return repositories{
			complaints: memory.NewComplaintStore(),
			history:    memory.NewStatusHistoryStore(),
			notes:      memory.NewInternalNoteStore(),
			users:      memory.NewUserStore(),
			resets:     memory.NewPasswordResetStore(),
		}
	}
	return repositories{
		complaints: repository.NewComplaintRepository(pool),
		history:    repository.NewStatusHistoryRepository(pool),
		notes:      repository.NewInternalNoteRepository(pool),
		users:      repository.NewUserRepository(pool),
		resets:     repository.NewPasswordResetRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
