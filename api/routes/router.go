// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"stagepass/internal/availability"
	"stagepass/internal/events"
	"stagepass/internal/notifications"
	"stagepass/internal/reservations"
	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer *notifications.Producer

	cacheService cache.Service
	seatRepo     seats.Repository
	engine       reservations.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer *notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// ReservationEngine exposes the engine after SetupRoutes ran, for wiring
// the background sweeper to the same instance the handlers use
func (r *Router) ReservationEngine() reservations.Service {
	return r.engine
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.cacheService = cache.NewService(r.db.Redis)

	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEventRoutes(api)
		r.setupSeatRoutes(api)
		r.setupReservationRoutes(api)
		r.setupAvailabilityRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagepass-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagepass-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.PostgreSQL)
	eventService := events.NewService(eventRepo)
	eventService.SetCacheService(r.cacheService)
	eventController := events.NewController(eventService)

	events.SetupEventRoutes(rg, r.config, eventController)
}

// setupSeatRoutes configures seat catalog and floor plan routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	r.seatRepo = seats.NewRepository(r.db.PostgreSQL)
	seatService := seats.NewService(r.seatRepo)
	seatService.SetCacheService(r.cacheService)
	seatController := seats.NewController(seatService)

	seats.SetupSeatRoutes(rg, r.config, seatController)
}

// setupReservationRoutes configures the hold/release/confirm routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	r.engine = reservations.NewService(r.seatRepo, r.config)
	r.engine.SetCacheService(r.cacheService)
	reservationController := reservations.NewController(r.engine, r.producer)

	reservations.SetupReservationRoutes(rg, reservationController)
}

// setupAvailabilityRoutes configures the public availability view
func (r *Router) setupAvailabilityRoutes(rg *gin.RouterGroup) {
	availabilityService := availability.NewService(r.seatRepo)
	availabilityService.SetCacheService(r.cacheService)
	availabilityController := availability.NewController(availabilityService)

	availability.SetupAvailabilityRoutes(rg, availabilityController)
}
