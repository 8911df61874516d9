// Command main loads starter inventory for the default account.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"implantstock/internal/bootstrap"
	"implantstock/internal/config"
	"implantstock/internal/seed"
)

func main() {
	username := flag.String("user", "", "Account to seed (defaults to DEFAULT_USERNAME)")
	password := flag.String("password", "", "Password used if the account has to be created (defaults to DEFAULT_PASSWORD)")
	catalogPath := flag.String("catalog", "", "YAML catalog to import")
	demo := flag.Int("demo", 0, "Number of generated demo implants to add")
	demoSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for demo implants")
	clean := flag.Bool("clean", false, "Remove the account's implants before seeding")
	flag.Parse()

	if *catalogPath == "" && *demo <= 0 && !*clean {
		log.Fatal("nothing to do: pass -catalog, -demo or -clean")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *username != "" {
		cfg.DefaultUsername = *username
	}
	if *password != "" {
		cfg.DefaultPassword = *password
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{EnsureDefaultUser: cfg.DefaultPassword != ""})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db)
	owner, err := s.Owner(ctx, cfg.DefaultUsername)
	if err != nil {
		log.Fatalf("Failed to resolve account %q: %v", cfg.DefaultUsername, err)
	}

	if *clean {
		removed, err := s.Clear(ctx, owner.ID)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		log.Printf("Removed %d implants", removed)
	}

	if *catalogPath != "" {
		catalog, err := seed.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to read catalog: %v", err)
		}
		res, err := s.Import(ctx, owner.ID, catalog)
		if err != nil {
			log.Fatalf("Catalog import failed: %v", err)
		}
		log.Printf("Catalog: %d added, %d already present", res.Created, res.Skipped)
	}

	if *demo > 0 {
		res, err := s.Demo(ctx, owner.ID, *demo, *demoSeed)
		if err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		log.Printf("Demo: %d added, %d already present", res.Created, res.Skipped)
	}

	log.Printf("Done seeding inventory for %s", owner.Username)
}
