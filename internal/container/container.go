package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"dresses/storefront/internal/api"
	"dresses/storefront/internal/cache"
	"dresses/storefront/internal/catalog"
	"dresses/storefront/internal/client"
	"dresses/storefront/internal/config"
	"dresses/storefront/internal/repository"
	"dresses/storefront/internal/service"
	"dresses/storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Source   catalog.Source
	Sessions *session.Manager
	Service  *service.Service
	Server   *api.Server

	httpServer *http.Server
	db         *pgxpool.Pool
	redis      *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	source, err := container.newSource(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		source = cache.NewCatalogCache(rdb, source, time.Duration(cfg.Redis.CacheTTL)*time.Second)
	}
	container.Source = source

	bounds := catalog.PriceRange{
		Min: decimal.NewFromFloat(cfg.Catalog.PriceMin),
		Max: decimal.NewFromFloat(cfg.Catalog.PriceMax),
	}

	container.Sessions = session.NewManager(func() *catalog.Engine {
		return catalog.NewEngine(source, bounds)
	}, time.Duration(cfg.Session.TTL)*time.Second)

	container.Service = service.NewService(container.Sessions)

	gin.SetMode(cfg.Server.Mode)
	container.Server = api.NewServer(cfg.Server, container.Service, bounds)
	container.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           container.Server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return container, nil
}

func (c *Container) newSource(cfg *config.Config) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		c.db = db
		log.Infof("📦 Catalog source: postgres %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return repository.NewDressRepository(db), nil
	default:
		log.Infof("📦 Catalog source: %s", cfg.Catalog.URL)
		return client.NewDressClient(cfg.Catalog), nil
	}
}

// Run serves the API and expires idle sessions until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Storefront listening on %s", c.httpServer.Addr)
		if err := c.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return c.httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return c.Service.RunSweeper(ctx, time.Duration(c.Config.Session.SweepInterval)*time.Second)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.Service.Close()

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
