package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sahilchouksey/edupath-api/config"
	"github.com/sahilchouksey/edupath-api/database"
	"github.com/sahilchouksey/edupath-api/utils/logger"
)

// seed creates the catalog tables and fills them with the built-in records
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(env.GO_ENV, env.LOG_LEVEL)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := database.StartGORM(env, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("EduPath - Catalog Seeding")
	fmt.Println(separator)

	if err := store.Init(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := database.NewSeeder(store).SeedAll(ctx); err != nil {
		return err
	}

	colleges, courses, err := store.CountCatalog(ctx)
	if err != nil {
		return err
	}

	// Loading validates course to college references
	if _, err := store.LoadCatalog(ctx); err != nil {
		return err
	}

	fmt.Println(separator)
	fmt.Printf("Catalog ready: %d colleges, %d courses\n", colleges, courses)
	fmt.Println(separator)
	return nil
}
