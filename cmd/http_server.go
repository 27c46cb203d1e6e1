package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/auth"
	"github.com/frahmantamala/shift-management/internal/collaborator"
	collaboratorPostgres "github.com/frahmantamala/shift-management/internal/collaborator/postgres"
	"github.com/frahmantamala/shift-management/internal/core/events"
	"github.com/frahmantamala/shift-management/internal/history"
	historyPostgres "github.com/frahmantamala/shift-management/internal/history/postgres"
	"github.com/frahmantamala/shift-management/internal/notification"
	"github.com/frahmantamala/shift-management/internal/schedule"
	schedulePostgres "github.com/frahmantamala/shift-management/internal/schedule/postgres"
	"github.com/frahmantamala/shift-management/internal/shift"
	shiftPostgres "github.com/frahmantamala/shift-management/internal/shift/postgres"
	"github.com/frahmantamala/shift-management/internal/transport/rest"
	"github.com/frahmantamala/shift-management/internal/user"
	userPostgres "github.com/frahmantamala/shift-management/internal/user/postgres"
	"github.com/frahmantamala/shift-management/pkg/logger"

	collaboratorDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/collaborator"
	historyDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/history"
	scheduleDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/schedule"
	shiftDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/shift"
	userDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/user"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	GormDB *gorm.DB
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler         *auth.Handler
	UserHandler         *user.Handler
	ScheduleHandler     *schedule.Handler
	ShiftHandler        *shift.Handler
	CollaboratorHandler *collaborator.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB,
		deps.AuthHandler,
		deps.UserHandler,
		deps.ScheduleHandler,
		deps.ShiftHandler,
		deps.CollaboratorHandler,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.L()

	gormDB, db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(log)
	notification.NewEventHandler(log).RegisterEventHandlers(eventBus)

	// Repositories
	userRepo := userPostgres.NewUserRepository(gormDB)
	scheduleRepo := schedulePostgres.NewScheduleRepository(gormDB)
	shiftRepo := shiftPostgres.NewShiftRepository(gormDB)
	collaboratorRepo := collaboratorPostgres.NewCollaboratorRepository(gormDB)
	historyRepo := historyPostgres.NewHistoryRepository(gormDB)

	// Services
	access := schedule.NewAccess(collaboratorRepo)
	userService := user.NewService(userRepo, log)
	historyService := history.NewService(historyRepo, userService, log)
	shiftService := shift.NewService(shiftRepo, scheduleRepo, access, eventBus, log)
	collaboratorService := collaborator.NewService(collaboratorRepo, scheduleRepo, access, userService, log)
	scheduleService := schedule.NewService(scheduleRepo, access, shiftService, collaboratorService, historyService, userService, log)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(userService, tokenGenerator, config.Security.IdentityAssertionSecret)

	return &Dependencies{
		Config: config,
		GormDB: gormDB,
		DB:     db,
		Router: chi.NewRouter(),
		Logger: log,

		AuthHandler:         auth.NewHandler(authService),
		UserHandler:         user.NewHandler(userService),
		ScheduleHandler:     schedule.NewHandler(scheduleService),
		ShiftHandler:        shift.NewHandler(shiftService),
		CollaboratorHandler: collaborator.NewHandler(collaboratorService),
	}, nil
}

// initDB opens the database through GORM and wraps the raw connection with
// sqlx for health checks. A sqlite DSN gets the schema auto-migrated, which
// keeps local development free of a running postgres.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	var (
		gormDB *gorm.DB
		driver string
		err    error
	)

	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.IsSQLite() {
		driver = "sqlite"
		gormDB, err = gorm.Open(sqlite.Open(strings.TrimPrefix(cfg.Source, "sqlite://")), gormCfg)
	} else {
		driver = "pgx"
		gormDB, err = gorm.Open(gormPostgres.Open(cfg.Source), gormCfg)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	if cfg.IsSQLite() {
		if err := gormDB.AutoMigrate(
			&userDatamodel.User{},
			&scheduleDatamodel.Schedule{},
			&shiftDatamodel.Shift{},
			&collaboratorDatamodel.Collaborator{},
			&historyDatamodel.Entry{},
		); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access raw db handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gormDB, sqlx.NewDb(sqlDB, driver), nil
}
