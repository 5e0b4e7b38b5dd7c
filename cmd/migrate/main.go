package main

import (
	"fmt"
	"os"

	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
	"github.com/pratik-mahalle/nutriscan/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	switch cfg.Storage.Driver {
	case "memory", "redis":
		fmt.Printf("Store driver %q has no schema, nothing to migrate\n", cfg.Storage.Driver)
		return
	}

	// Connect to database
	db, dialect, err := kv.OpenDB(cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database successfully\n", dialect.Name)

	migFS, err := migrations.For(dialect.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load migrations: %v\n", err)
		os.Exit(1)
	}

	applied, err := kv.RunMigrations(db, dialect, migFS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed after %d file(s): %v\n", applied, err)
		os.Exit(1)
	}

	if applied == 0 {
		fmt.Println("Schema is up to date")
		return
	}
	fmt.Printf("\nApplied %d migration(s) successfully!\n", applied)
}
