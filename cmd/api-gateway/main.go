package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/clinic-admin-api/api/swagger"
	"github.com/noah-isme/clinic-admin-api/internal/handler"
	"github.com/noah-isme/clinic-admin-api/internal/middleware"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	"github.com/noah-isme/clinic-admin-api/internal/views"
	"github.com/noah-isme/clinic-admin-api/pkg/cache"
	"github.com/noah-isme/clinic-admin-api/pkg/config"
	"github.com/noah-isme/clinic-admin-api/pkg/database"
	"github.com/noah-isme/clinic-admin-api/pkg/export"
	"github.com/noah-isme/clinic-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/clinic-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/clinic-admin-api/pkg/middleware/requestid"
)

// @title Clinic Admin API
// @version 1.0.0
// @description Multi-tenant clinic administration: list views with search, filters, sorting, stats and export.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close() //nolint:errcheck
	}

	clinicRepo := repository.NewClinicRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	nurseRepo := repository.NewNurseRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	catalog := views.NewCatalog(cfg.View.Location(), views.ParseLocale(cfg.View.Locale))
	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	var cacheStore service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		cacheStore = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheStore, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Clinics:      clinicRepo,
		Patients:     patientRepo,
		Doctors:      doctorRepo,
		Nurses:       nurseRepo,
		Appointments: appointmentRepo,
		Referrals:    referralRepo,
		Invoices:     invoiceRepo,
		Views:        catalog,
		Cache:        cacheSvc,
		Logger:       logr,
		Config: service.DashboardServiceConfig{
			Enabled:  cfg.Dashboard.Enabled,
			CacheTTL: cfg.Dashboard.CacheTTL,
		},
	})

	deps := service.Deps{
		Validator: service.NewValidator(),
		Exporter:  service.NewExportService(logr, export.NewCSVExporter(), export.NewPDFExporter()),
		Metrics:   metricsSvc,
		Changes:   dashboardSvc,
		Logger:    logr,
		Now:       time.Now,
	}

	clinicSvc := service.NewClinicService(clinicRepo, catalog.Clinics, deps)
	patientSvc := service.NewPatientService(patientRepo, catalog.Patients, deps)
	doctorSvc := service.NewDoctorService(doctorRepo, catalog.Doctors, deps)
	nurseSvc := service.NewNurseService(nurseRepo, catalog.Nurses, deps)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, catalog.Appointments, deps)
	referralSvc := service.NewReferralService(referralRepo, patientRepo, doctorRepo, catalog.Referrals, deps)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, patientRepo, catalog.Invoices, deps)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	auditSvc := service.NewAuditService(auditRepo, service.AuditServiceConfig{Workers: 2, RetryDelay: time.Second}, logr)
	auditSvc.Start(context.Background())
	defer auditSvc.Close()

	pingers := map[string]handler.Pinger{"database": handler.PingFunc(db.PingContext)}
	if cacheRepo != nil {
		pingers["cache"] = cacheRepo
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, pingers)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))
	api.Use(middleware.TenantScope())

	admins := []models.UserRole{models.RoleSuperAdmin, models.RoleClinicAdmin}
	frontDesk := []models.UserRole{models.RoleSuperAdmin, models.RoleClinicAdmin, models.RoleReceptionist}
	clinical := []models.UserRole{models.RoleSuperAdmin, models.RoleClinicAdmin, models.RoleDoctor}
	scheduling := []models.UserRole{models.RoleSuperAdmin, models.RoleClinicAdmin, models.RoleReceptionist, models.RoleDoctor}
	careTeam := []models.UserRole{models.RoleSuperAdmin, models.RoleClinicAdmin, models.RoleReceptionist, models.RoleDoctor, models.RoleNurse}

	guards := func(resource string, roles ...models.UserRole) handler.Guards {
		return handler.Guards{
			Write: []gin.HandlerFunc{middleware.RequireRoles(roles...)},
			Audit: middleware.Audit(auditSvc, logr, resource),
		}
	}

	handler.NewClinicHandler(clinicSvc).Register(api.Group("/clinics"), guards("clinics", admins...))
	handler.NewPatientHandler(patientSvc).Register(api.Group("/patients"), guards("patients", careTeam...))
	handler.NewDoctorHandler(doctorSvc).Register(api.Group("/doctors"), guards("doctors", admins...))
	handler.NewNurseHandler(nurseSvc).Register(api.Group("/nurses"), guards("nurses", admins...))
	handler.NewAppointmentHandler(appointmentSvc).Register(api.Group("/appointments"), guards("appointments", scheduling...))
	handler.NewReferralHandler(referralSvc).Register(api.Group("/referrals"), guards("referrals", clinical...))
	handler.NewInvoiceHandler(invoiceSvc).Register(api.Group("/invoices"), guards("invoices", frontDesk...))

	api.GET("/dashboard", middleware.RequireRoles(admins...), dashboardHandler.Summary)
	api.GET("/audit/:resource/:id", middleware.RequireRoles(admins...), auditHandler.History)
	api.GET("/metrics/summary", middleware.RequireRoles(models.RoleSuperAdmin), metricsHandler.Summary)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
