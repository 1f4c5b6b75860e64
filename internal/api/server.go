package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recommender/internal/api/handlers"
	"recommender/internal/api/middleware"
	"recommender/internal/config"
	"recommender/internal/logger"
	"recommender/internal/recommender"

	"github.com/gin-gonic/gin"
)

type Forwarder interface {
	recommender.EventSender
	handlers.Pinger
}

// Dependencies are the collaborators the server routes to. Publisher is only used in
// async forward mode and Deliveries only when a database is configured.
type Dependencies struct {
	Forwarder  Forwarder
	Publisher  handlers.EventPublisher
	Deliveries handlers.DeliveryLog
}

type Server struct {
	config  *config.Config
	logger  *logger.Logger
	router  *gin.Engine
	handler http.Handler
	status  *handlers.StatusHandler
	server  *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, deps Dependencies) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	// Initialize handlers
	var publisher handlers.EventPublisher
	if cfg.Async() {
		publisher = deps.Publisher
	}
	eventHandler := handlers.NewEventHandler(deps.Forwarder, publisher, logger, cfg.SendTimeout)
	statusHandler := handlers.NewStatusHandler(deps.Forwarder, logger, cfg.SendTimeout, cfg.StatusCacheTTL)

	router.GET("/health", statusHandler.Health)

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", statusHandler.Status)

		// Raw events
		v1.POST("/events/:type", eventHandler.Ingest)

		// Typed storefront events
		v1.POST("/storefront/:kind", eventHandler.Storefront)

		// Delivery log
		if deps.Deliveries != nil {
			deliveryHandler := handlers.NewDeliveryHandler(deps.Deliveries)

			deliveries := v1.Group("/deliveries")
			{
				deliveries.GET("", deliveryHandler.List)
				deliveries.GET("/:id", deliveryHandler.Get)
			}
		}
	}

	return &Server{
		config:  cfg,
		logger:  logger,
		router:  router,
		handler: middleware.CORS(cfg.AllowedOrigins(), router),
		status:  statusHandler,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	// WriteTimeout must outlive a synchronous send
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.SendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.status.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the router wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
