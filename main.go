package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"health-portal-server/internal/assistant"
	"health-portal-server/internal/config"
	"health-portal-server/internal/mailer"
	"health-portal-server/internal/repository"
	"health-portal-server/internal/routes"
	"health-portal-server/internal/securestore"
	"health-portal-server/internal/storage"
)

func main() {
	// Load environment variables; a missing .env file is fine in production.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	backing, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Error opening storage backend %q: %v", cfg.Storage.Backend, err)
	}
	defer backing.Close()

	repo := repository.New(backing, securestore.New(backing), pickAssistant(cfg), pickMailer(cfg))
	if cfg.RemoteAPIURL != "" {
		log.Printf("Remote mode enabled, proxying to %s", cfg.RemoteAPIURL)
		repo.UseRemote(repository.NewRemoteClient(cfg.RemoteAPIURL))
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, repo, cfg)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func openStorage(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "badger":
		return storage.OpenBadger(cfg.Storage.DataDir)
	case "mysql":
		return storage.OpenMySQL(cfg.Storage.DSN)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func pickAssistant(cfg *config.Config) assistant.Assistant {
	if cfg.Assistant.APIKey == "" {
		log.Println("No assistant API key configured, using offline heuristics")
		return assistant.NewOffline()
	}
	return assistant.NewOpenAI(cfg.Assistant.APIKey, cfg.Assistant.Model)
}

func pickMailer(cfg *config.Config) mailer.Mailer {
	if cfg.Mailer.APIKey == "" {
		log.Println("No mailer API key configured, logging verification codes instead")
		return mailer.NewLog()
	}
	return mailer.NewSendGrid(cfg.Mailer.APIKey, cfg.Mailer.FromEmail, cfg.Mailer.FromName)
}
