package main

import (
	"context"
	"flag"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/repository"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/firebase"
	"github.com/MichaelVenturi/House-marketplace/pkg/config"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
)

// migrate rewrites listings stored with the legacy geoLocation field.
func main() {
	timeout := flag.Duration("timeout", 10*time.Minute, "abort the migration after this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.Environment)
	if err := cfg.ValidateFirebase(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Migration needs Firestore")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts, err := firebase.ClientOptions(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to resolve credentials")
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create Firestore client")
	}
	defer client.Close()

	migrated, err := repository.NewFirestoreListingMigrator(client).MigrateGeolocation(ctx)
	if err != nil {
		logger.Log.Fatal().Err(err).Int("migrated", migrated).Msg("Migration failed")
	}
	logger.Log.Info().Int("migrated", migrated).Msg("Geolocation migration finished")
}
