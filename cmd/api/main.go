package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/archistudio/designcheck/internal/application"
	appanalysis "github.com/archistudio/designcheck/internal/application/analysis"
	appdesigns "github.com/archistudio/designcheck/internal/application/designs"
	appprojects "github.com/archistudio/designcheck/internal/application/projects"
	"github.com/archistudio/designcheck/internal/config"
	domdesigns "github.com/archistudio/designcheck/internal/domain/designs"
	"github.com/archistudio/designcheck/internal/domain/genfailures"
	domprojects "github.com/archistudio/designcheck/internal/domain/projects"
	openaiClient "github.com/archistudio/designcheck/internal/infra/ai/openai"
	mysqlp "github.com/archistudio/designcheck/internal/infra/db/mysql"
	postgresp "github.com/archistudio/designcheck/internal/infra/db/postgres"
	"github.com/archistudio/designcheck/internal/infra/httpserver"
	minioStore "github.com/archistudio/designcheck/internal/infra/storage"
	"github.com/archistudio/designcheck/internal/middleware"
)

type repositories struct {
	projects   domprojects.Repository
	designs    domdesigns.Repository
	metrics    domdesigns.MetricsRepository
	compliance domdesigns.ComplianceRepository
	failures   genfailures.Repository
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database, driver chosen by config
	var db *sql.DB
	var repos repositories
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repos = repositories{
			projects:   postgresp.NewProjectRepository(db),
			designs:    postgresp.NewDesignRepository(db),
			metrics:    postgresp.NewMetricsRepository(db),
			compliance: postgresp.NewComplianceRepository(db),
			failures:   postgresp.NewFailureRepository(db),
		}
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repos = repositories{
			projects:   mysqlp.NewProjectRepository(db),
			designs:    mysqlp.NewDesignRepository(db),
			metrics:    mysqlp.NewMetricsRepository(db),
			compliance: mysqlp.NewComplianceRepository(db),
			failures:   mysqlp.NewFailureRepository(db),
		}
	default:
		log.Fatalf("unsupported database driver: %s", cfg.Database.Driver)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init AI client
	ai := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.ImageModel, cfg.OpenAI.ReasoningModel)

	clock := application.SystemClock{}

	// init services
	projectsSvc := &appprojects.Service{Repo: repos.projects, Clock: clock}
	designsSvc := &appdesigns.Service{
		Projects: repos.projects,
		Designs:  repos.designs,
		Failures: repos.failures,
		AI:       ai,
		Images:   store,
		Clock:    clock,
	}
	analysisSvc := &appanalysis.Service{
		Projects:   repos.projects,
		Designs:    repos.designs,
		Metrics:    repos.metrics,
		Compliance: repos.compliance,
	}

	health := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"storage":  &middleware.PingHealthChecker{Target: store},
	}

	// rate limit defaults
	capacity := cfg.RateLimit.Capacity
	if capacity == 0 {
		capacity = 100
	}
	refill := cfg.RateLimit.RefillRate
	if refill == 0 {
		refill = 10
	}

	// init router with middleware chain
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.Keys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.Keys))
		mux.Use(middleware.RequireValidTenant)
	}
	mux.Use(middleware.RateLimitMiddleware(capacity, refill))
	mux.Mount("/", httpserver.NewRouter(projectsSvc, designsSvc, analysisSvc, health))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
