package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"empresspc/auth"
	"empresspc/config"
	"empresspc/db"
	"empresspc/db/mongo"
	"empresspc/db/redis"
	"empresspc/handlers"
	"empresspc/logger"
	"empresspc/metrics"
	"empresspc/repository"
	"empresspc/repository/memory"
	"empresspc/routes"
	"empresspc/services"
	"empresspc/utils"

	"go.uber.org/zap"
)

type stores struct {
	Quotations repository.QuotationRepository
	Counters   repository.CounterRepository
	Parties    repository.PartyRepository
	Components repository.ComponentRepository
	Users      repository.UserRepository
	Initial    repository.InitialRepository
	Backend    db.DB
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch db.DBType(cfg.DBType) {
	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
		if err := mg.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		// Run migrations (indexes)
		if err := db.RunMigrations(cfg.MongoURL, cfg.MongoDatabase, log); err != nil {
			_ = mg.Disconnect()
			return nil, err
		}
		database := mg.Database()
		return &stores{
			Quotations: repository.NewMongoQuotationRepo(database),
			Counters:   repository.NewMongoCounterRepo(database),
			Parties:    repository.NewMongoPartyRepo(database),
			Components: repository.NewMongoComponentRepo(database),
			Users:      repository.NewMongoUserRepo(database),
			Initial:    repository.NewMongoInitialRepo(database),
			Backend:    mg,
		}, nil

	case db.Memory:
		log.Warn("using in-memory store; data is lost on restart")
		st := memory.New()
		return &stores{
			Quotations: st,
			Counters:   st,
			Parties:    st,
			Components: st,
			Users:      st,
			Initial:    st,
			Backend:    st,
		}, nil

	default:
		return nil, fmt.Errorf("DB_TYPE %q not supported", cfg.DBType)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load config from .env or the environment
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Backend.Disconnect(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	var denylist auth.Denylist = auth.NopDenylist{}
	if cfg.RedisAddr != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		denylist = auth.NewRedisDenylist(rdb)
	}

	var uploader services.Uploader
	if r2 := cfg.R2(); r2.Enabled() {
		u, err := utils.NewR2Uploader(ctx, r2)
		if err != nil {
			return err
		}
		uploader = u
	}

	enforcer, err := auth.NewEnforcer()
	if err != nil {
		return err
	}
	m := metrics.Default()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	quotationSvc := services.NewQuotationService(st.Quotations, st.Counters, st.Parties, st.Initial, m, log)
	userSvc := services.NewUserService(st.Users, tokens, denylist, log)
	pdfSvc := services.NewPDFService(
		quotationSvc,
		repository.NewPDFRepository(st.Quotations, st.Initial),
		&utils.ChromeRenderer{Timeout: cfg.ChromeTimeout},
		uploader, m, log,
	)

	h := routes.Handlers{
		Users:      &handlers.UserHandler{Users: userSvc, Log: log},
		Quotations: &handlers.QuotationHandler{Quotations: quotationSvc, Log: log},
		Parties:    &handlers.PartyHandler{Parties: services.NewPartyService(st.Parties), Log: log},
		Components: &handlers.ComponentHandler{Components: services.NewComponentService(st.Components, log), Log: log},
		Initial:    &handlers.InitialHandler{Repo: st.Initial, Log: log},
		PDF:        &handlers.PDFHandler{PDFs: pdfSvc, Log: log},
	}
	router := routes.SetupRoutes(h, routes.Options{
		Auth:       userSvc,
		Enforcer:   enforcer,
		Log:        log,
		Metrics:    m,
		CORSOrigin: cfg.CORSOrigin,
		Production: cfg.IsProduction(),
		LoginRate:  cfg.LoginRate,
		Ping:       st.Backend.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("port", cfg.Port), zap.String("db", cfg.DBType))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
