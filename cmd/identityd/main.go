// @title        Identity Service API
// @version      1.0
// @description  Username/password authentication issuing HS256 bearer tokens.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/api"
	"github.com/99minutos/identity-service/internal/api/handler"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/core/service"
	mongostore "github.com/99minutos/identity-service/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/identity-service/internal/infrastructure/db/redis"
	httpserver "github.com/99minutos/identity-service/internal/infrastructure/http"
	"github.com/99minutos/identity-service/internal/pkg/config"
	"github.com/99minutos/identity-service/internal/pkg/token"
	"github.com/99minutos/identity-service/pkg/logger"
)

// recordSource is a record store that can also report its own health.
type recordSource interface {
	ports.IdentitySource
	handler.Pinger
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "identityd",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeStore := openRecordStore(ctx, cfg, log)
	defer closeStore()

	snapshot, err := service.LoadSnapshot(ctx, src, cfg.RecordStore)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.RecordStore).Msg("failed to load credential snapshot")
	}
	log.Info().Int("records", snapshot.Len()).Str("store", cfg.RecordStore).Msg("credential snapshot loaded")

	signer, err := token.NewSigner([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token signer")
	}

	authenticator, err := service.NewAuthService(snapshot, signer, log,
		service.WithMaxConcurrentVerifications(cfg.VerifyConcurrency))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build authenticator")
	}

	e := api.NewRouter(api.Dependencies{
		Authenticator: authenticator,
		Verifier:      signer,
		Snapshot:      snapshot,
		Checks:        map[string]handler.Pinger{cfg.RecordStore: src},
		AdminRole:     cfg.AdminRole,
		Log:           log,
	})

	srv := httpserver.NewServer(e, ":"+cfg.Port, cfg.ShutdownTimeout, log)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
	log.Info().Msg("identityd stopped")
}

// openRecordStore connects to the configured record store. The returned func
// releases the connection.
func openRecordStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (recordSource, func()) {
	switch cfg.RecordStore {
	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		return redisstore.NewIdentitySource(client, cfg.Redis.KeyPrefix), func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
		}
	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Username: cfg.Mongo.User,
			Password: cfg.Mongo.Password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		return mongostore.NewIdentityRepository(db, cfg.Mongo.Collection), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		}
	}
}
