package database_test

import (
	"log"

	"github.com/niveshquant/quantfolio/internal/store"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/database"
)

// Example shows the startup wiring: one pool, handed to the store.
func Example() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	recs := store.NewPostgresStore(db.Pool)
	_ = recs
}
