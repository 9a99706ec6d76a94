package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AlibekovAA/places-api/internal/common/bootstrap"
	"github.com/AlibekovAA/places-api/internal/common/config"
	"github.com/AlibekovAA/places-api/internal/common/db"
	"github.com/AlibekovAA/places-api/internal/migrations"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status|redo|reset|version]\n")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	log, err := bootstrap.InitializeLogger("migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	databaseURL, err := config.LoadDatabaseURL()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, log, databaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS, command, log); err != nil {
		pool.Close()
		log.Fatalf("migration failed: %v", err)
	}
}
