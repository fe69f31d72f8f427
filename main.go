package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"laptoppos/config"
	"laptoppos/database"
	"laptoppos/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize config
	config.InitConfig()

	// Setup router
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Snapshot persistence is the primary store; the relational mirror is
	// best effort and the server still runs when the database is down.
	persister := &database.FilePersister{Path: config.AppConfig.SnapshotPath}

	var relSyncer *database.RelationalSyncer
	var storeSyncer database.Syncer
	gormDB, err := database.InitDB()
	if err != nil {
		log.Printf("Relational database unavailable, running on snapshot only: %v", err)
	} else {
		if err := database.RunMigrations(gormDB); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		relSyncer = &database.RelationalSyncer{DB: gormDB}
		storeSyncer = relSyncer
	}

	var bulk *database.BulkRestorer
	if relSyncer != nil && config.AppConfig.DBDriver == "postgres" {
		sqlDB, err := database.InitBulkDB()
		if err != nil {
			log.Printf("Bulk restore connection unavailable: %v", err)
		} else {
			bulk = &database.BulkRestorer{DB: sqlDB}
		}
	}

	store := database.NewStore(persister, storeSyncer)
	snap, err := persister.Load()
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	store.Load(snap)
	store.SeedDefaultAdmin()

	// Setup routes (real AuthMiddleware is applied inside routes)
	routes.SetupRoutes(r, store, relSyncer, bulk)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Printf("🚀 Server running at http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
