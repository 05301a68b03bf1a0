package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api"
	"github.com/MichaelVenturi/House-marketplace/internal/adapter/repository"
	domainrepo "github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/service"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/firebase"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/geocoding"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/ratelimit"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/storage"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/websocket"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
	"github.com/MichaelVenturi/House-marketplace/pkg/config"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
)

// backend is everything that differs between DATA_BACKEND=firestore and memory.
type backend struct {
	users    domainrepo.UserRepository
	listings domainrepo.ListingRepository
	images   service.ImageStore
	auth     usecase.FirebaseAuthClient
	blobs    *storage.MemoryStore
	closers  []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var b *backend
	switch cfg.DataBackend {
	case config.BackendMemory:
		b = newMemoryBackend(cfg)
	default:
		b, err = newFirestoreBackend(ctx, cfg)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize Firebase services")
		}
	}
	defer func() {
		for _, closeFn := range b.closers {
			if err := closeFn(); err != nil {
				logger.Warn("Close failed: %v", err)
			}
		}
	}()
	logger.Info("Using %s data backend", cfg.DataBackend)
	if cfg.IsProduction() && cfg.DataBackend == config.BackendMemory {
		logger.Warn("Memory backend in production: data is lost on restart")
	}

	var geocoder service.Geocoder
	if cfg.GeolocationEnabled {
		g, err := geocoding.NewGoogleGeocoder(cfg.GeoApiKey)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to create geocoder")
		}
		geocoder = g
	}

	sessions := websocket.NewManager()
	sessions.Start(ctx)

	authLimiter := ratelimit.NewPerMinute(cfg.AuthRateLimitPerMinute)
	authLimiter.StartCleanupRoutine(5*time.Minute, ctx.Done())

	authUseCase := usecase.NewAuthUseCase(b.users, b.auth, sessions)
	userUseCase := usecase.NewUserUseCase(b.users, b.auth, sessions)
	listingUseCase := usecase.NewListingUseCase(b.listings, b.images, geocoder, usecase.ListingOptions{
		PageSize:           cfg.ListingPageSize,
		RecommendedLimit:   cfg.RecommendedLimit,
		GeolocationEnabled: cfg.GeolocationEnabled,
	})

	e := api.NewServer(api.ServerDeps{
		AuthUseCase:    authUseCase,
		UserUseCase:    userUseCase,
		ListingUseCase: listingUseCase,
		Sessions:       sessions,
		Verifier:       b.auth,
		AuthLimiter:    authLimiter,
		MaxImageSize:   cfg.MaxImageSizeBytes,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	if b.blobs != nil {
		e.GET("/blobs/*", serveBlob(b.blobs))
	}

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func newFirestoreBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	opts, err := firebase.ClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, err
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, true, opts...)
	if err != nil {
		firestoreClient.Close()
		return nil, err
	}

	return &backend{
		users:    repository.NewFirestoreUserRepository(firestoreClient),
		listings: repository.NewFirestoreListingRepository(firestoreClient),
		images:   storageClient,
		auth:     firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey),
		closers:  []func() error{storageClient.Close, firestoreClient.Close},
	}, nil
}

func newMemoryBackend(cfg *config.Config) *backend {
	blobs := storage.NewMemoryStore("http://localhost:" + cfg.ServerPort + "/blobs")

	return &backend{
		users:    repository.NewMemoryUserRepository(),
		listings: repository.NewMemoryListingRepository(),
		images:   blobs,
		auth:     firebase.NewMemoryAuthClient(),
		blobs:    blobs,
		closers:  []func() error{blobs.Close},
	}
}

func serveBlob(blobs *storage.MemoryStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := strings.TrimPrefix(c.Param("*"), "/")
		data, ok := blobs.Object(key)
		if !ok {
			return echo.ErrNotFound
		}
		return c.Blob(http.StatusOK, http.DetectContentType(data), data)
	}
}
