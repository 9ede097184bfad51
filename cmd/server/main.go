package main

import (
	"ceezaa-sessions/internal/cache"
	"ceezaa-sessions/internal/config"
	"ceezaa-sessions/internal/repository"
	"ceezaa-sessions/internal/service"
	"ceezaa-sessions/internal/transport/rest"
	"ceezaa-sessions/internal/transport/ws"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("ping MongoDB")
	}
	log.Info().Str("db", cfg.MongoDatabase).Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("ping Redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	wsHub := ws.NewHub(log)

	// Repositories and caches
	sessionRepo := repository.NewSessionRepo(db)
	venueRepo := repository.NewVenueRepo(db)
	codeIndex := cache.NewCodeIndex(rdb, cfg.CodeTTL)
	sessionCache := cache.NewSessionCache(rdb, cfg.SnapshotTTL)

	// Services
	store := service.NewSessionStore(sessionRepo, codeIndex, sessionCache, log)
	authSvc := service.NewAuthService(cfg.JWTSecret)
	sessionSvc := service.NewSessionService(store, venueRepo, log)
	venueSvc := service.NewVenueService(store, venueRepo, log)
	voteSvc := service.NewVoteService(store, log)
	consensusSvc := service.NewConsensusService(store, log)
	inviteSvc := service.NewInviteService(store, cfg.AppHost, log)

	// The hub implements service.Notifier
	sessionSvc.SetNotifier(wsHub)
	venueSvc.SetNotifier(wsHub)
	voteSvc.SetNotifier(wsHub)
	consensusSvc.SetNotifier(wsHub)
	inviteSvc.SetNotifier(wsHub)

	container := &rest.Container{
		AuthService:      authSvc,
		SessionService:   sessionSvc,
		VenueService:     venueSvc,
		VoteService:      voteSvc,
		ConsensusService: consensusSvc,
		InviteService:    inviteSvc,
		WSHub:            wsHub,
		AllowedOrigins:   cfg.CORSOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server exited")
}
