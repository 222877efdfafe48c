package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/fitinghof/whatanime-go/config"
	"github.com/fitinghof/whatanime-go/internal/anilist"
	"github.com/fitinghof/whatanime-go/internal/anisongdb"
	"github.com/fitinghof/whatanime-go/internal/database"
	"github.com/fitinghof/whatanime-go/internal/handlers"
	"github.com/fitinghof/whatanime-go/internal/ingest"
	"github.com/fitinghof/whatanime-go/internal/spotifyclient"
)

func main() {
	fmt.Println("whatanime-go")

	cfg := config.LoadConfig()
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Server port: %d", cfg.ServerPort)

	if err := database.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema applied")

	repo := database.NewRepository(database.DB)

	anisong := anisongdb.New(10)
	ani := anilist.New(10)
	spotify := spotifyclient.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI, cfg.SpotifyRequestsPerSecond)

	seasonWorker := ingest.NewWorker(repo, anisong, ani, 24*time.Hour)
	go seasonWorker.Start()
	log.Println("Season ingest worker started (refreshing every 24h)")

	onDemand := ingest.NewOnDemand(repo, anisong, ani)
	h := handlers.New(repo, onDemand, spotify, cfg.FrontendURL)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware - MUST be first
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Add("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Writer.Header().Add("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Add("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Add("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	})

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
	})
	router.Use(sessions.Sessions("whatanime_session", store))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "whatanime-go"})
	})

	router.GET("/api/login", h.Login)
	router.GET("/callback", h.Callback)

	api := router.Group("/api")
	{
		api.GET("/update", h.Update)
		api.POST("/confirm_anime", h.ConfirmAnime)
		api.POST("/report", h.Report)
	}

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	seasonWorker.Stop()
	database.Close()

	log.Println("Shutdown complete")
}
