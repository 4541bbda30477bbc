package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fieldops/booking-api/api/swagger"
	"github.com/fieldops/booking-api/internal/engine"
	"github.com/fieldops/booking-api/internal/handler"
	"github.com/fieldops/booking-api/internal/middleware"
	"github.com/fieldops/booking-api/internal/repository"
	"github.com/fieldops/booking-api/internal/service"
	"github.com/fieldops/booking-api/pkg/cache"
	"github.com/fieldops/booking-api/pkg/config"
	"github.com/fieldops/booking-api/pkg/database"
	"github.com/fieldops/booking-api/pkg/logger"
	corsmiddleware "github.com/fieldops/booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fieldops/booking-api/pkg/middleware/requestid"
)

// @title Field Booking API
// @version 1.0.0
// @description Availability and assignment engine for field-sales appointment booking
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Availability.CacheTTL, logr, cfg.Availability.CacheEnabled)

	repRepo := repository.NewRepresentativeRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	areaRepo := repository.NewServiceAreaRepository(db)

	policy := engine.PolicyFor(cfg.Engine.RadiusMiles, cfg.Engine.LegacyAnchor)

	areaSvc := service.NewServiceAreaService(areaRepo, cacheSvc, cfg.ServiceAreas.CacheTTL, validate, logr)
	availabilitySvc := service.NewAvailabilityService(repRepo, apptRepo, areaSvc, cacheSvc, cfg.Availability.CacheTTL, policy, cfg.Engine.GridDays, metricsSvc, validate, logr)
	bookingSvc := service.NewBookingService(availabilitySvc, areaSvc, apptRepo, metricsSvc, validate, logr)
	apptSvc := service.NewAppointmentService(apptRepo, availabilitySvc, validate, logr)
	repSvc := service.NewRepresentativeService(repRepo, validate, logr)

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	appointmentHandler := handler.NewAppointmentHandler(bookingSvc, apptSvc)
	representativeHandler := handler.NewRepresentativeHandler(repSvc)
	serviceAreaHandler := handler.NewServiceAreaHandler(areaSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/availability", availabilityHandler.GetGrid)

		api.POST("/appointments", appointmentHandler.Book)
		api.GET("/appointments", appointmentHandler.List)
		api.GET("/appointments/:id", appointmentHandler.Get)
		api.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

		api.GET("/representatives", representativeHandler.List)
		api.POST("/representatives", representativeHandler.Create)
		api.GET("/representatives/:id", representativeHandler.Get)
		api.PUT("/representatives/:id", representativeHandler.Update)
		api.DELETE("/representatives/:id", representativeHandler.Deactivate)
		api.GET("/representatives/:id/template", representativeHandler.GetTemplate)
		api.PUT("/representatives/:id/template", representativeHandler.ReplaceTemplate)

		api.GET("/service-areas", serviceAreaHandler.List)
		api.PUT("/service-areas", serviceAreaHandler.Upsert)
		api.DELETE("/service-areas/cache", serviceAreaHandler.InvalidateCache)
		api.GET("/service-areas/:zip", serviceAreaHandler.Check)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
