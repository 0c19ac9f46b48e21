package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/seed"
)

func main() {
	path := flag.String("file", "fixtures/directory.yaml", "YAML fixture with users, contacts and leads")
	var deletes seed.RefList
	flag.Var(&deletes, "delete", "soft-delete a record after seeding, as kind:id (repeatable)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read fixture: %v", err)
	}
	fixture, err := seed.Parse(data)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	dialect := database.Dialect(cfg.DatabaseDriver)
	db, err := database.NewDBConnection(dialect, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, dialect); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	directory := database.NewDirectoryRepository(db, dialect)
	summary, err := seed.Apply(ctx, directory, fixture)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d users, %d contacts, %d leads from %s", summary.Users, summary.Contacts, summary.Leads, *path)

	if len(deletes) > 0 {
		if err := seed.Remove(ctx, directory, deletes); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("soft-deleted %s", deletes.String())
	}
}
