// Package app wires configuration, logging and the shared backends for both servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"hl-portal/internal/cache"
	"hl-portal/internal/config"
	"hl-portal/internal/database"
	"hl-portal/internal/logger"
	"hl-portal/internal/search"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Infra holds the connections shared by the handlers of one server.
// Cache and Search are nil when not configured.
type Infra struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *database.GormDB
	Stores database.Stores
	Cache  *cache.Cache
	Search *search.SearchClient
}

// LoadConfig reads .env (when present), the YAML file named by CONFIG_PATH and
// the environment, then validates the result for the given server.
func LoadConfig(admin bool) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(admin); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Open connects MySQL, Redis and Meilisearch. Redis and Meilisearch failures are
// logged and leave the feature disabled; a MySQL failure is fatal to the caller.
func Open(cfg *config.Config, serviceName string) (*Infra, error) {
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	mysqlCfg := cfg.Database.MySQL
	gormDB, err := database.NewGormDB(database.Options{
		Host:         mysqlCfg.Host,
		Port:         strconv.Itoa(mysqlCfg.Port),
		User:         mysqlCfg.User,
		Password:     mysqlCfg.Password,
		Name:         mysqlCfg.Database,
		MaxOpenConns: mysqlCfg.MaxOpenConns,
		MaxIdleConns: mysqlCfg.MaxIdleConns,
		LogLevel:     logger.GormLevel(cfg.Logging.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := gormDB.InitSchema(); err != nil {
		gormDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Info("connected to MySQL", zap.String("host", mysqlCfg.Host), zap.String("database", mysqlCfg.Database))

	infra := &Infra{
		Config: cfg,
		Logger: log,
		DB:     gormDB,
		Stores: gormDB.Stores(),
	}

	if cfg.Cache.Addr != "" {
		c := cache.New(cache.NewRedisClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB), cfg.Cache.CacheTTL(), log)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unavailable, response cache disabled", zap.Error(err))
		} else {
			infra.Cache = c
			log.Info("response cache enabled", zap.String("addr", cfg.Cache.Addr), zap.Duration("ttl", cfg.Cache.CacheTTL()))
		}
		cancel()
	}

	infra.Search = openSearch(cfg.Search, log)
	return infra, nil
}

// openSearch returns nil when search is not configured or its index cannot be set up.
func openSearch(cfg config.SearchConfig, log *zap.Logger) *search.SearchClient {
	host := cfg.Meilisearch.Host
	if host == "" {
		return nil
	}
	client := search.NewSearchClient(host, cfg.Meilisearch.APIKey)
	if err := client.InitIndex(); err != nil {
		log.Warn("search disabled: failed to initialize index", zap.String("host", host), zap.Error(err))
		return nil
	}
	return client
}

// Close releases the database pool and flushes the logger.
func (i *Infra) Close() {
	if err := i.DB.Close(); err != nil {
		i.Logger.Warn("failed to close database", zap.Error(err))
	}
	_ = i.Logger.Sync()
}

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
