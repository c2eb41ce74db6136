package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skillshare/backend/internal/config"
	"github.com/skillshare/backend/internal/handlers"
	appMiddleware "github.com/skillshare/backend/internal/middleware"
	"github.com/skillshare/backend/internal/services"
)

func main() {
	cfg := config.Load()

	// Firebase Auth (server-side verification of ID tokens)
	authClient, err := appMiddleware.NewFirebaseAuthClient(
		context.Background(),
		appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		},
	)
	if err != nil {
		log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	profileService, err := services.NewMongoProfileService(startupCtx, cfg.MongoURI, cfg.MongoDBName, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to connect profile store: %v", err)
	}
	defer profileService.Close(context.Background())

	catalogService, err := services.NewMongoCatalogService(startupCtx, cfg.MongoURI, cfg.MongoDBName, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to connect catalog store: %v", err)
	}
	defer catalogService.Close(context.Background())

	catalogCache, err := services.NewCatalogCache(startupCtx, cfg.RedisURL, cfg.CatalogCacheTTL)
	if err != nil {
		log.Printf("Warning: catalog cache disabled: %v", err)
	}
	defer catalogCache.Close()

	photoService := services.NewPhotoService(cfg.UploadDir)

	profileHandler := handlers.NewProfileHandler(profileService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, catalogCache)
	photoHandler := handlers.NewPhotoHandler(photoService, cfg.MaxUploadSizeMB)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public directory reads; identity attached when present so
		// future personalization can use it.
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.OptionalAuth(authClient))

			r.Get("/profiles", profileHandler.ListProfiles)
			r.Get("/profiles/search", profileHandler.SearchProfiles)
			r.Get("/profiles/{profileId}", profileHandler.GetProfile)
		})

		// Public catalog
		r.Get("/skills", catalogHandler.ListSkills)
		r.Get("/skills/{skillId}", catalogHandler.GetSkill)
		r.Get("/skill-categories", catalogHandler.ListCategories)
		r.Get("/skill-categories/{categoryId}", catalogHandler.GetCategory)
		r.Post("/initialize/default-data", catalogHandler.InitializeDefaultData)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.FirebaseAuth(authClient))

			r.Get("/profiles/me", profileHandler.GetMyProfile)
			r.Post("/profiles", profileHandler.CreateProfile)
			r.Put("/profiles/{profileId}", profileHandler.UpdateProfile)
			r.Delete("/profiles/{profileId}", profileHandler.DeleteProfile)

			r.Post("/skills", catalogHandler.CreateSkill)
			r.Post("/skill-categories", catalogHandler.CreateCategory)

			r.Post("/upload", photoHandler.Upload)
			r.Delete("/upload/{photoId}", photoHandler.Delete)
		})
	})

	// Serve uploaded profile photos
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	ln, err := net.Listen("tcp", cfg.ServerAddress)
	if err != nil {
		// Plain return so the deferred store disconnects still run.
		log.Printf("Server failed to start: %v", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("SkillShare API server starting on %s", cfg.ServerAddress)
	srv := &http.Server{Handler: r}
	if err := serve(ctx, srv, ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Server error: %v", err)
	}
	log.Printf("Server stopped")
}

// serve runs srv on ln until ctx is cancelled, then drains in-flight
// requests before returning so the caller's deferred cleanup runs.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
