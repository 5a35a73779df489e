package main

import (
	"alcyxob/gymtracker/internal/api"
	"alcyxob/gymtracker/internal/auth"
	"alcyxob/gymtracker/internal/config"
	"alcyxob/gymtracker/internal/logging"
	"alcyxob/gymtracker/internal/repository"
	"alcyxob/gymtracker/internal/repository/mongo"
	"alcyxob/gymtracker/internal/repository/sqlrepo"
	"alcyxob/gymtracker/internal/service"
	"alcyxob/gymtracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// repositories is the set of stores the services are built on.
type repositories struct {
	users     repository.UserRepository
	exercises repository.ExerciseDefinitionRepository
	templates repository.TemplateRepository
	workouts  repository.WorkoutRepository
	health    repository.HealthChecker
	close     func()
}

// @title GymTracker API
// @version 1.0
// @description API for logging workouts, managing exercise definitions and workout templates.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:3001
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /login.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.Info().
		Str("driver", cfg.Database.Driver).
		Str("token_mode", cfg.Auth.TokenMode).
		Str("password_hashing", cfg.Auth.PasswordHashing).
		Msg("Starting GymTracker server")

	// --- Database Connection ---
	repos, err := openRepositories(cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not open the backing store")
	}
	defer repos.close()

	// --- Authentication ---
	tokens, hasher, err := buildAuth(cfg.Auth)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid authentication settings")
	}
	if cfg.Auth.TokenMode == config.TokenModeLegacy || cfg.Auth.PasswordHashing == config.PasswordHashingPlain {
		logger.Warn().Msg("Legacy authentication mode is enabled; credentials are not protected")
	}

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
	} else {
		logger.Info().Msg("S3 bucket not configured; workout export disabled")
	}

	// --- Initialize Services ---
	services := api.Services{
		Auth:     service.NewAuthService(repos.users, tokens, hasher),
		Exercise: service.NewExerciseService(repos.exercises),
		Template: service.NewTemplateService(repos.templates),
		Workout:  service.NewWorkoutService(repos.workouts, fileStorage, cfg.S3.URLExpiry),
		Health:   repos.health,
	}

	// --- Initialize Gin Engine ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, logger, cfg.Server.CORSOrigins, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Info().Msg("Server exiting.")
}

func openRepositories(cfg config.DatabaseConfig, logger zerolog.Logger) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.DSN)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Name)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		logger.Info().Str("database", cfg.Name).Msg("MongoDB connection established")

		return &repositories{
			users:     mongo.NewMongoUserRepository(db),
			exercises: mongo.NewMongoExerciseRepository(db),
			templates: mongo.NewMongoTemplateRepository(db),
			workouts:  mongo.NewMongoWorkoutRepository(db),
			health:    mongo.NewHealthChecker(client),
			close: func() {
				logger.Info().Msg("Disconnecting MongoDB...")
				if err := mongo.DisconnectDB(client); err != nil {
					logger.Error().Err(err).Msg("Failed to disconnect MongoDB")
				}
			},
		}, nil

	default:
		if err := sqlrepo.Migrate(cfg.Driver, cfg.DSN); err != nil {
			return nil, err
		}
		db, err := sqlrepo.ConnectDB(cfg.Driver, cfg.DSN, sqlrepo.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("SQL database migrated and connected")

		return &repositories{
			users:     sqlrepo.NewUserRepository(db),
			exercises: sqlrepo.NewExerciseDefinitionRepository(db),
			templates: sqlrepo.NewTemplateRepository(db),
			workouts:  sqlrepo.NewWorkoutRepository(db),
			health:    sqlrepo.NewHealthChecker(db),
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error().Err(err).Msg("Failed to close database pool")
				}
			},
		}, nil
	}
}

func buildAuth(cfg config.AuthConfig) (auth.TokenCodec, auth.PasswordHasher, error) {
	var tokens auth.TokenCodec
	switch cfg.TokenMode {
	case config.TokenModeLegacy:
		tokens = auth.NewLegacyCodec()
	default:
		codec, err := auth.NewJWTCodec(cfg.JWTSecret, cfg.JWTExpiration)
		if err != nil {
			return nil, nil, err
		}
		tokens = codec
	}

	var hasher auth.PasswordHasher = auth.NewBcryptHasher()
	if cfg.PasswordHashing == config.PasswordHashingPlain {
		hasher = auth.PlainHasher{}
	}
	return tokens, hasher, nil
}
