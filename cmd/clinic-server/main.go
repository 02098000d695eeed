package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/enkoy/clinic-admin/internal/config"
	"github.com/enkoy/clinic-admin/internal/domain/directory"
	"github.com/enkoy/clinic-admin/internal/domain/scheduling"
	"github.com/enkoy/clinic-admin/internal/platform/auth"
	"github.com/enkoy/clinic-admin/internal/platform/db"
	"github.com/enkoy/clinic-admin/internal/platform/middleware"
)

// patientDirAdapter adapts the directory service to the
// scheduling.PatientDirectory interface, avoiding circular imports between
// the scheduling and directory packages.
type patientDirAdapter struct {
	svc *directory.Service
}

func (a *patientDirAdapter) Get(ctx context.Context, id int64) (scheduling.Ref, error) {
	p, err := a.svc.GetPatient(ctx, id)
	if err != nil {
		return scheduling.Ref{}, err
	}
	return scheduling.Ref{ID: p.ID, DisplayName: p.DisplayName()}, nil
}

// doctorDirAdapter adapts the directory service to scheduling.DoctorDirectory.
type doctorDirAdapter struct {
	svc *directory.Service
}

func (a *doctorDirAdapter) List(ctx context.Context) ([]scheduling.Ref, error) {
	doctors, err := a.svc.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]scheduling.Ref, 0, len(doctors))
	for _, d := range doctors {
		refs = append(refs, scheduling.Ref{ID: d.ID, DisplayName: d.FullName})
	}
	return refs, nil
}

// serviceDirAdapter adapts the directory service to scheduling.ServiceDirectory.
type serviceDirAdapter struct {
	svc *directory.Service
}

func (a *serviceDirAdapter) List(ctx context.Context) ([]scheduling.ServiceInfo, error) {
	services, err := a.svc.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]scheduling.ServiceInfo, 0, len(services))
	for _, s := range services {
		infos = append(infos, scheduling.ServiceInfo{
			Ref:             scheduling.Ref{ID: s.ID, DisplayName: s.Name},
			DurationMinutes: s.DurationMinutes,
		})
	}
	return infos, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic back-office API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.ResolvedAuthMode() == "development" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.AuthSecret),
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
		}))
	}

	// Repositories
	apptStore := scheduling.NewAppointmentStorePG(pool)
	patientRepo := directory.NewPatientRepoPG(pool)
	doctorRepo := directory.NewDoctorRepoPG(pool)
	serviceRepo := directory.NewServiceRepoPG(pool)

	// Services
	dirSvc := directory.NewService(patientRepo, doctorRepo, serviceRepo)
	schedSvc := scheduling.NewService(
		apptStore,
		&patientDirAdapter{svc: dirSvc},
		&doctorDirAdapter{svc: dirSvc},
		&serviceDirAdapter{svc: dirSvc},
	)

	// Routes
	apiV1 := e.Group("/api/v1")
	scheduling.NewHandler(schedSvc).RegisterRoutes(apiV1)
	directory.NewHandler(dirSvc).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
