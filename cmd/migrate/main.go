package main

import (
	"log"

	"watch-party-be/internal/config"
	"watch-party-be/internal/entity"
	"watch-party-be/pkg/database"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	if err := gormDB.AutoMigrate(&entity.WatchSession{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ Migration complete")
}
