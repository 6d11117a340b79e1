package main

import (
	"log"

	"github.com/MosinFAM/connecthub/internal/config"
	"github.com/MosinFAM/connecthub/internal/db"
	"github.com/MosinFAM/connecthub/internal/handlers"
	"github.com/MosinFAM/connecthub/internal/media"
	"github.com/MosinFAM/connecthub/internal/mentions"
	"github.com/MosinFAM/connecthub/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	var store storage.Storage
	if cfg.StorageType == "postgres" {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is not set")
		}
		dbConn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to DB:", err)
		}
		pgStore := storage.NewPostgresStorage(dbConn)
		if err := pgStore.InitDB(cfg.MigrationsDir); err != nil {
			log.Fatal("Failed to initialize DB:", err)
		}
		store = pgStore
	} else {
		store = storage.NewMemoryStorage()
	}

	processor, err := media.NewProcessor(media.Config{UploadDir: cfg.UploadDir})
	if err != nil {
		log.Fatal("Failed to set up media processor:", err)
	}
	notifier := &mentions.Notifier{Store: store}

	h := handlers.New(store, processor, notifier, cfg)

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig))

	handlers.RegisterRoutes(r, h)
	r.Static("/uploads", cfg.UploadDir)

	log.Println("Server is running on port " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
