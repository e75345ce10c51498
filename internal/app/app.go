package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/cache"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/config"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Cache             cache.Cache
	AuthService       *service.AuthService
	UserService       *service.UserService
	ResolutionService *service.ResolutionService
	AnalyticsService  *service.AnalyticsService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	userCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return NewWithDB(cfg, database, userCache), nil
}

// NewWithDB wires repositories and services around an open, migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB, c cache.Cache) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	resolutionRepository := repository.NewResolutionRepository(database)
	checkInRepository := repository.NewCheckInRepository(database)
	pageViewRepository := repository.NewPageViewRepository(database)

	// Services
	userService := service.NewUserService(userRepository, c, cfg.UserCacheTTL)
	authService := service.NewAuthService(
		userRepository,
		userService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
		service.ProvidersFromConfig(cfg)...,
	)
	resolutionService := service.NewResolutionService(resolutionRepository, checkInRepository)
	analyticsService := service.NewAnalyticsService(pageViewRepository)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Cache:             c,
		AuthService:       authService,
		UserService:       userService,
		ResolutionService: resolutionService,
		AnalyticsService:  analyticsService,
	}
}

func (a *App) Close() error {
	var errs []error
	if closer, ok := a.Cache.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
