package api

import (
	"net/http"
	"path/filepath"
	"time"

	"dresses/storefront/internal/catalog"
	"dresses/storefront/internal/config"
	"dresses/storefront/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server exposes shopper sessions over HTTP
type Server struct {
	config  config.ServerConfig
	router  *gin.Engine
	service *service.Service
	bounds  catalog.PriceRange
}

func NewServer(cfg config.ServerConfig, svc *service.Service, bounds catalog.PriceRange) *Server {
	s := &Server{
		config:  cfg,
		service: svc,
		bounds:  bounds,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := gin.New()
	r.Use(gin.RecoveryWithWriter(log.StandardLogger().Writer()))
	r.Use(requestLogger())

	if len(s.config.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.config.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if s.config.StaticDir != "" {
		r.StaticFile("/dresses.json", filepath.Join(s.config.StaticDir, "dresses.json"))
	}

	r.GET("/filters", s.getFilters)
	r.POST("/sessions", s.createSession)

	sessions := r.Group("/sessions/:id")
	{
		sessions.GET("/checkout", s.getCheckout)
		sessions.PUT("/checkout/fields/:field", s.setField)
		sessions.POST("/checkout/next", s.advance)
		sessions.POST("/checkout/previous", s.retreat)
		sessions.POST("/checkout/submit", s.submit)

		sessions.GET("/catalog", s.getCatalog)
		sessions.PUT("/catalog/name", s.setTextFilter)
		sessions.POST("/catalog/filters/:dimension", s.toggleFilter)
		sessions.PUT("/catalog/price/:bound", s.setPriceBound)
		sessions.POST("/catalog/sort/:key", s.setSort)
		sessions.POST("/catalog/direction", s.toggleSortDirection)
		sessions.POST("/catalog/reload", s.reload)
	}

	s.router = r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("HTTP request")
	}
}
