package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/tasks"
	delivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
	"conferencecentral/internal/repository/memory"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

//go:generate swag init --dir ../.. --generalInfo cmd/conferencecentral/main.go --output ../../docs --outputTypes go --parseInternal

// @title Conference Central API
// @version 1.0
// @description Conferences, sessions, speakers, registration and wishlists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// repositories is the storage backend selected by STORAGE.
type repositories struct {
	conferences   domain.ConferenceRepository
	profiles      domain.ProfileRepository
	registrations domain.RegistrationRepository
	sessions      domain.SessionRepository
	speakers      domain.SpeakerRepository
	close         func() error
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		store := memory.New()
		return &repositories{
			conferences:   store.Conferences(),
			profiles:      store.Profiles(),
			registrations: store.Registrations(),
			sessions:      store.Sessions(),
			speakers:      store.Speakers(),
			close:         func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("connected to database")
	return &repositories{
		conferences:   postgres.NewConferenceRepository(db),
		profiles:      postgres.NewProfileRepository(db),
		registrations: postgres.NewRegistrationRepository(db),
		sessions:      postgres.NewSessionRepository(db),
		speakers:      postgres.NewSpeakerRepository(db),
		close:         db.Close,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repos, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	dispatcher := tasks.NewDispatcher(logger, cfg.TaskWorkers, cfg.TaskMaxAttempts, m)
	announcements := cache.New()
	opts := services.Options{
		Timeout:       cfg.RequestTimeout,
		TxMaxAttempts: cfg.TxMaxAttempts,
		Metrics:       m,
		Logger:        logger,
	}

	conferenceSvc := services.NewConferenceService(repos.conferences, repos.profiles, repos.registrations, announcements, dispatcher, opts)
	sessionSvc := services.NewSessionService(repos.sessions, repos.speakers, repos.conferences, repos.profiles, announcements, dispatcher, opts)
	profileSvc := services.NewProfileService(repos.profiles, opts)
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	dispatcher.Handle(domain.TaskSendConfirmationEmail, services.ConfirmationEmailHandler(emailSvc))
	dispatcher.Handle(domain.TaskSetFeaturedSpeaker, services.FeaturedSpeakerHandler(sessionSvc))

	handler := delivery.NewRouter(delivery.RouterDeps{
		Logger:         logger,
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		AllowedOrigins: cfg.AllowedOrigins,
		Conferences:    controllers.NewConferenceController(logger, conferenceSvc),
		Profiles:       controllers.NewProfileController(logger, profileSvc),
		Sessions:       controllers.NewSessionController(logger, sessionSvc),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return dispatcher.Run(ctx)
	})
	g.Go(func() error {
		return services.RunAnnouncementRefresher(ctx, conferenceSvc, cfg.AnnouncementInterval, logger)
	})
	return g.Wait()
}
