package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raynet-care/care-api/internal/config"
	documentHandler "github.com/raynet-care/care-api/internal/handler/document"
	healthHandler "github.com/raynet-care/care-api/internal/handler/health"
	noteHandler "github.com/raynet-care/care-api/internal/handler/note"
	serviceUserHandler "github.com/raynet-care/care-api/internal/handler/serviceuser"
	staffHandler "github.com/raynet-care/care-api/internal/handler/staff"
	syncHandler "github.com/raynet-care/care-api/internal/handler/sync"
	"github.com/raynet-care/care-api/internal/middleware"
	"github.com/raynet-care/care-api/internal/repository/postgres"
	"github.com/raynet-care/care-api/internal/router"
	"github.com/raynet-care/care-api/internal/service/access"
	documentService "github.com/raynet-care/care-api/internal/service/document"
	noteService "github.com/raynet-care/care-api/internal/service/note"
	reportService "github.com/raynet-care/care-api/internal/service/report"
	serviceUserService "github.com/raynet-care/care-api/internal/service/serviceuser"
	staffService "github.com/raynet-care/care-api/internal/service/staff"
	"github.com/raynet-care/care-api/internal/storage"
	"github.com/raynet-care/care-api/pkg/logger"
)

func main() {
	appLog := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		appLog.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLog.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	blobs, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		appLog.Fatal(err, "failed to initialize blob store")
	}

	// Repositories
	serviceUserRepo := postgres.NewServiceUserRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)

	// Services
	accessSvc := access.NewService(staffRepo, serviceUserRepo)
	serviceUserSvc := serviceUserService.NewService(serviceUserRepo, noteRepo, accessSvc)
	staffSvc := staffService.NewService(staffRepo, accessSvc)
	noteSvc := noteService.NewService(noteRepo, serviceUserRepo, accessSvc)
	documentSvc := documentService.NewService(documentRepo, serviceUserRepo, accessSvc, blobs)
	reportSvc := reportService.NewService(noteRepo, serviceUserRepo, accessSvc, cfg.Report.OrgName)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT)

	// Handlers
	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		router.RouterConfig{
			Logger:        appLog,
			RateLimitRPS:  50,
			RateBurst:     100,
			MetricsPrefix: "care_api",
		},
		serviceUserHandler.NewHandler(serviceUserSvc),
		noteHandler.NewHandler(noteSvc, reportSvc),
		documentHandler.NewHandler(documentSvc),
		syncHandler.NewHandler(noteSvc),
		staffHandler.NewHandler(staffSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(err, "failed to start server")
		}
	}()
	appLog.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Fatal(err, "server forced to shutdown")
	}

	appLog.Info("server exited properly")
}
