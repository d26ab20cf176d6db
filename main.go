package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meinhoongagan/feastbook/config"
	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/db"
	"github.com/meinhoongagan/feastbook/logger"
	"github.com/meinhoongagan/feastbook/policy"
	"github.com/meinhoongagan/feastbook/redis"
	"github.com/meinhoongagan/feastbook/repository"
	"github.com/meinhoongagan/feastbook/routes"
	"github.com/meinhoongagan/feastbook/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, log)
	case "migrate":
		err = migrate(ctx, cfg, log)
	default:
		err = fmt.Errorf("unknown command %q, expected serve or migrate", command)
	}
	if err != nil {
		log.Error("exiting", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("migrate needs STORE=%s", config.StorePostgres)
	}
	conn, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	return db.Migrate(ctx, conn, log)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var store repository.Store
	switch cfg.Store {
	case config.StorePostgres:
		var conn *gorm.DB
		conn, err = db.Open(cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer db.Close(conn)
		store = repository.NewGormStore(conn)
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on exit")
		store = repository.NewMemoryStore(nil)
	}

	var (
		cache    redis.CatalogCache  = redis.NoopCatalogCache{}
		denylist redis.TokenDenylist = redis.NewMemoryDenylist(nil)
	)
	if cfg.RedisAddr != "" {
		var client *goredis.Client
		client, err = redis.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		cache = redis.NewCatalogCache(client, cfg.CatalogCacheTTL)
		denylist = redis.NewTokenDenylist(client)
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	} else {
		log.Warn("REDIS_ADDR not set, catalog cache disabled and revocations kept in memory")
	}

	deps := &controllers.Deps{
		Store:    store,
		Policy:   policy.New(cfg.MinLeadTime, loc),
		Cache:    cache,
		Denylist: denylist,
		Tokens:   utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Log:      log,
		Now:      time.Now,
	}
	app := routes.NewApp(deps)

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
