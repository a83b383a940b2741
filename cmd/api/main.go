package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fptrack/internal/config"
	"fptrack/internal/database"
	"fptrack/internal/device"
	"fptrack/internal/mailer"
	"fptrack/internal/middleware"
	"fptrack/internal/modules/attendance"
	"fptrack/internal/modules/auth"
	jwtsvc "fptrack/internal/pkg/jwt"
	"fptrack/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	logRepo := repository.NewAttendanceLogRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL)

	var mail auth.Mailer
	if cfg.Mailer == "smtp" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		mail = mailer.NewConsoleMailer()
	}

	deviceClient := device.NewClient(cfg.PythonBin, cfg.DeviceScriptDir)

	authService := auth.NewService(userRepo, tokenRepo, j, mail, deviceClient, cfg.OTPTTL, cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService, auth.CookieSettings{
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
		Path:     cfg.CookiePath,
	})

	hub := attendance.NewHub()
	attendanceService := attendance.NewService(logRepo, hub)
	attendanceHandler := attendance.NewHandler(attendanceService, hub)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			attendanceHandler.RegisterRoutes(protected)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := auth.NewSweeper(tokenRepo, cfg.SweepInterval)
	go sweeper.Run(ctx)

	poller := attendance.NewPoller(attendanceService, deviceClient, cfg.DeviceIPs, cfg.PollInterval)
	go poller.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Printf("api listening: addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	log.Println("server stopped")
}
