package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SneakerShopBot/internal/application"
	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/config"
	"SneakerShopBot/internal/infrastructure/pricing"
	"SneakerShopBot/internal/infrastructure/storage/cache"
	"SneakerShopBot/internal/infrastructure/telegram"
	"SneakerShopBot/internal/storage"
	"SneakerShopBot/internal/storage/memory"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Bot stopped: %v", err)
	}
	log.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config) (err error) {
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i].Close())
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	store, err := openStorage(ctx, g, cfg.Database, &closers)
	if err != nil {
		return err
	}

	var prices application.PriceLookup
	if cfg.PriceLookup.Enabled {
		c, err := openCache(ctx, g, cfg, &closers)
		if err != nil {
			return err
		}
		client := pricing.NewClient(cfg.PriceLookup, c)
		closers = append(closers, client)
		prices = client
	}

	tg, err := telegram.New(cfg.Telegram)
	if err != nil {
		return err
	}
	closers = append(closers, tg)

	bot := application.New(tg, store, states.NewManager(), prices, cfg.Bot)
	dispatcher := application.NewDispatcher(bot, cfg.Bot.Workers)

	g.Go(func() error {
		return dispatcher.Run(ctx)
	})
	g.Go(func() error {
		return tg.Listen(ctx, dispatcher.Dispatch)
	})
	return g.Wait()
}

func openStorage(ctx context.Context, g *errgroup.Group, cfg config.DatabaseConfig, closers *[]io.Closer) (storage.Storage, error) {
	if cfg.Driver == "memory" {
		log.Warn("Using in-memory storage, the catalog is lost on restart")
		return memory.NewStorage(), nil
	}

	db, err := storage.Connect(ctx, cfg.DSN, cfg.ConnectRetries)
	if err != nil {
		return storage.Storage{}, err
	}
	*closers = append(*closers, db)

	if err := storage.Migrate(ctx, db); err != nil {
		return storage.Storage{}, err
	}

	g.Go(func() error {
		storage.KeepAlive(ctx, db, time.Minute)
		return nil
	})
	return storage.NewStorage(db), nil
}

func openCache(ctx context.Context, g *errgroup.Group, cfg *config.Config, closers *[]io.Closer) (cache.Cache, error) {
	switch cfg.PriceLookup.Cache {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		*closers = append(*closers, client)
		return cache.NewRedisCache(client), nil
	case "none", "":
		return nil, nil
	default:
		c := cache.NewFileCache(cfg.PriceLookup.CacheFile)
		g.Go(func() error {
			c.Sweep(ctx, max(cfg.PriceLookup.CacheTTL, time.Minute))
			return nil
		})
		return c, nil
	}
}
