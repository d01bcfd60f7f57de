package config

import (
	"os"

	"github.com/omprakashcoder/flashcardgenerator-v1/storage"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Database *gorm.DB

// Connect opens the backing database: postgres when DB_URL is set,
// otherwise a local sqlite file.
func Connect() error {
	var err error
	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "flashcards.db"
		}
		Database, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		panic("failed to connect database")
	}

	err = Database.AutoMigrate(&storage.Entry{})
	if err != nil {
		panic("failed to auto migrate database")
	}

	return nil
}
