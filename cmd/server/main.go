package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/streaming-catalog/internal/config"
	"github.com/iliyamo/streaming-catalog/internal/database"
	"github.com/iliyamo/streaming-catalog/internal/handler"
	"github.com/iliyamo/streaming-catalog/internal/logger"
	"github.com/iliyamo/streaming-catalog/internal/middleware"
	"github.com/iliyamo/streaming-catalog/internal/queue"
	"github.com/iliyamo/streaming-catalog/internal/repository"
	"github.com/iliyamo/streaming-catalog/internal/router"
	"github.com/iliyamo/streaming-catalog/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Get()

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Fatal("schema migration failed")
		}
	}

	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		log.WithError(err).Warn("redis unavailable; token revocation disabled")
	} else {
		defer rdb.Close()
	}
	tokens := repository.NewTokenRepo(rdb)

	var events handler.EventPublisher = service.NopPublisher{}
	evCfg := config.LoadEventsConfig()
	if evCfg.Enabled {
		pub := service.NewRabbitPublisher(evCfg, log)
		defer pub.Close()
		events = pub
		if evCfg.RunConsumer {
			go func() {
				if err := queue.StartActivityConsumer(ctx, evCfg.URL, evCfg.Queue, log); err != nil && !errors.Is(err, context.Canceled) {
					log.WithError(err).Error("activity consumer stopped")
				}
			}()
		}
	}

	users := repository.NewUserRepo(db)
	authHandler := handler.NewAuthHandler(cfg, users, tokens, log)
	catalogHandler := handler.NewCatalogHandler(repository.NewContentRepo(db), repository.NewCategoryRepo(db))
	userState := handler.NewUserStateHandler(repository.NewFavoriteRepo(db), repository.NewHistoryRepo(db), events, log)

	e := router.NewEcho(cfg.CORSOrigins, log)
	authMW := middleware.JWTAuth(cfg.JWTSecret, tokens, log)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, authMW)
	router.RegisterCatalog(e, catalogHandler)
	router.RegisterUserState(e, userState, authMW)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
