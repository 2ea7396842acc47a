package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/MansiJagta/echo-forge-create/controllers"
	"github.com/MansiJagta/echo-forge-create/pkg/elevenlabs"
	"github.com/MansiJagta/echo-forge-create/pkg/supabase"
	"github.com/MansiJagta/echo-forge-create/platform/cache"
	"github.com/MansiJagta/echo-forge-create/platform/config"
	"github.com/MansiJagta/echo-forge-create/platform/database"
	"github.com/MansiJagta/echo-forge-create/platform/kafka"
	"github.com/MansiJagta/echo-forge-create/platform/logging"
	"github.com/MansiJagta/echo-forge-create/platform/middleware"
	"github.com/MansiJagta/echo-forge-create/platform/storage"
	"github.com/MansiJagta/echo-forge-create/platform/token"
	"github.com/MansiJagta/echo-forge-create/services"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	fs := afero.NewOsFs()

	uploads, err := services.NewUploadService(fs, cfg.UploadDir, cfg.MaxUploadSize, cfg.SniffContent)
	if err != nil {
		logging.Fatal("initializing upload store", "error", err)
	}

	audioStore, err := buildAudioStore(cfg, fs)
	if err != nil {
		logging.Fatal("initializing audio store", "error", err)
	}

	provider := elevenlabs.NewClient(
		cfg.ElevenLabsBaseURL,
		cfg.ElevenLabsAPIKey,
		&http.Client{Timeout: cfg.ProviderTimeout},
		fs,
	)

	backend := supabase.NewClient(
		cfg.SupabaseURL,
		cfg.SupabaseKey,
		&http.Client{Timeout: cfg.BackendTimeout},
	)

	issuer := token.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	identity := &services.IdentityService{
		Backend:       backend,
		Issuer:        issuer,
		ProfilesTable: cfg.ProfilesTable,
	}

	history, db, err := buildHistoryStore(cfg, backend)
	if err != nil {
		logging.Fatal("initializing history store", "error", err)
	}

	voiceCache := cache.Connect(cfg)
	events := kafka.NewProducer(cfg)

	cloneService := &services.CloneService{
		Uploads:  uploads,
		Provider: provider,
		Audio:    audioStore,
		History:  history,
		Events:   events,
	}

	authController := &controllers.AuthController{Service: identity}
	cloneController := &controllers.CloneController{Service: cloneService, Audio: audioStore}
	historyController := &controllers.HistoryController{Store: history}
	voicesController := &controllers.VoicesController{Provider: provider, Cache: voiceCache}

	setupGracefulShutdown(db, voiceCache, events)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadSize
	router.Use(middleware.CORS())

	router.GET("/health", controllers.HealthCheck)
	router.GET("/download/:filename", cloneController.Download)
	router.GET("/voices", voicesController.List)
	router.DELETE("/voices/:id", voicesController.Delete)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(issuer))
	{
		protected.GET("/auth/me", authController.Me)
		protected.POST("/clone-voice", cloneController.CloneVoice)
		protected.GET("/audio/history", historyController.List)
		protected.DELETE("/audio/:id", historyController.Delete)
	}

	logging.Info("starting voice clone gateway", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logging.Fatal("failed to start server", "error", err)
	}
}

func buildAudioStore(cfg *config.Config, fs afero.Fs) (storage.AudioStore, error) {
	if cfg.StorageBackend == "minio" {
		return storage.ConnectMinio(cfg)
	}
	return storage.NewLocalStore(fs, cfg.OutputDir)
}

func buildHistoryStore(cfg *config.Config, backend *supabase.Client) (services.HistoryStore, *gorm.DB, error) {
	if cfg.HistoryBackend == "postgres" {
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		return &services.PostgresHistoryStore{DB: db}, db, nil
	}
	return &services.SupabaseHistoryStore{Backend: backend, Table: cfg.HistoryTable}, nil, nil
}

func setupGracefulShutdown(db *gorm.DB, voiceCache *cache.Cache, events *kafka.Producer) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logging.Info("shutting down services...")

		if db != nil {
			database.Close(db)
		}
		voiceCache.Close()
		if err := events.Close(); err != nil {
			logging.Warn("closing kafka producer", "error", err)
		}

		logging.Info("all services shut down gracefully")
		os.Exit(0)
	}()
}
