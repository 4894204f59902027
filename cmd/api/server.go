package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"docflow/internal/auth"
	"docflow/internal/checkout"
	"docflow/internal/config"
	"docflow/internal/database"
	"docflow/internal/database/migration"
	handlers "docflow/internal/http/handler"
	"docflow/internal/http/middleware"
	"docflow/internal/identity"
	"docflow/internal/logger"
	"docflow/internal/notify"
	tracing "docflow/internal/otel"
	"docflow/internal/repository"
	"docflow/internal/repository/memory"
	"docflow/internal/repository/mongodb"
	"docflow/internal/repository/postgres"
	"docflow/internal/service"
	"docflow/internal/storage"
	"docflow/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// stores is the persistence backend selected by STORE_DRIVER.
type stores struct {
	users    repository.UserRepository
	docs     repository.DocumentRepository
	payments repository.PaymentRepository
	ping     handlers.Pinger
	close    func(context.Context) error
}

func newLogger(cfg *config.AppConfig) *logrus.Logger {
	return logger.New(os.Stdout, cfg.LogLevel, logger.Location(cfg.Timezone))
}

func openStores(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			users:    postgres.NewUserPostgres(db),
			docs:     postgres.NewDocumentPostgres(db),
			payments: postgres.NewPaymentPostgres(db),
			ping:     handlers.PingFunc(db.PingContext),
			close:    func(context.Context) error { return db.Close() },
		}, nil

	case config.StoreMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    mongodb.NewUserMongo(db),
			docs:     mongodb.NewDocumentMongo(db),
			payments: mongodb.NewPaymentMongo(db),
			ping: handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}),
			close: client.Disconnect,
		}, nil

	case config.StoreMemory:
		log.WithField("component", "store").Warn("using in-memory store; data is lost on restart")
		s := memory.New()
		return &stores{
			users:    s.Users(),
			docs:     s.Documents(),
			payments: s.Payments(),
			ping:     s,
			close:    func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func newMailer(cfg config.SMTPConfig, log logrus.FieldLogger) (notify.Mailer, error) {
	if cfg.Host == "" {
		log.WithField("component", "mail").Warn("SMTP_HOST not set; emails are logged, not sent")
		return notify.NewLogMailer(log), nil
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
	})
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	log := newLogger(cfg)

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		log.WithError(err).Error("failed to initialize tracing")
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to open store")
		return err
	}
	defer st.close(context.Background())

	idCfg := identity.Config{
		URL:         cfg.Supabase.URL,
		AnonKey:     cfg.Supabase.AnonKey,
		JWTSecret:   cfg.Supabase.JWTSecret,
		Verifier:    cfg.Supabase.Verifier,
		RedirectURL: cfg.Supabase.RedirectURL,
	}
	idp := identity.NewClient(idCfg, nil)
	verifier, err := identity.NewVerifier(ctx, idCfg, idp)
	if err != nil {
		return err
	}

	mailer, err := newMailer(cfg.SMTP, log)
	if err != nil {
		return fmt.Errorf("configure smtp: %w", err)
	}
	notifier := notify.NewEmailNotifier(mailer, cfg.SMTP.From, log)

	gateway := checkout.NewStripe(checkout.Config{
		SecretKey: cfg.Stripe.SecretKey,
		Currency:  cfg.Stripe.Currency,
		PublicURL: cfg.PublicURL,
	})

	health := []handlers.Pinger{st.ping}
	var uploads service.UploadService
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("initialize object storage: %w", err)
		}
		uploads = service.NewUploadService(objStore, cfg.MinIO.PresignExpiry)
		health = append(health, objStore)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:               "docflow",
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.CORS(cfg.CORSAllowOrigins))
	app.Use(middleware.Recover(log))

	handlers.RegisterRoutes(app, handlers.Deps{
		Validator:     validation.New(),
		Authenticator: auth.NewAuthenticator(verifier, st.users),
		Health:        health,
		Metrics:       registry,
		Auth:          service.NewAuthService(idp, st.users),
		Documents:     service.NewDocumentService(st.docs, st.users, notifier),
		Payments:      service.NewPaymentService(st.payments, st.users, notifier, gateway),
		Users:         service.NewUserService(st.users),
		Uploads:       uploads,
	})

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{"event": "server_start", "addr": addr, "store": cfg.StoreDriver}).Info("listening")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.WithField("event", "server_shutdown").Info("shutting down")
		return app.ShutdownWithContext(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("server stopped with error")
		return err
	}
	return nil
}

func migrate(ctx context.Context, cfg *config.AppConfig) error {
	log := newLogger(cfg)
	if cfg.StoreDriver != config.StorePostgres {
		return fmt.Errorf("migrate applies to the %s store only, STORE_DRIVER is %q", config.StorePostgres, cfg.StoreDriver)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	return migration.EnsureMigrated(ctx, db, log, cfg.Database.Host)
}
