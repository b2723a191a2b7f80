// cmd/tools/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"funding-tracker/internal/common/config"
	"funding-tracker/internal/common/database"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/query"
	"funding-tracker/internal/search"
	"funding-tracker/internal/store"
)

func main() {
	loadCmd := flag.NewFlagSet("load", flag.ExitOnError)
	loadFile := loadCmd.String("file", "configs/seed.yaml", "Path to the seed file")
	dryRun := loadCmd.Bool("dry-run", false, "Only parse and check the seed file")

	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
	checkFile := checkCmd.String("file", "configs/seed.yaml", "Path to the seed file")

	reindexCmd := flag.NewFlagSet("reindex", flag.ExitOnError)

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "load":
		loadCmd.Parse(os.Args[2:])
		err = runLoad(*loadFile, *dryRun)
	case "check":
		checkCmd.Parse(os.Args[2:])
		var f *SeedFile
		if f, err = readSeedFile(*checkFile); err == nil {
			fmt.Printf("Seed file OK: %d opportunities, %d clients, %d applications\n",
				len(f.Opportunities), len(f.Clients), len(f.Applications))
		}
	case "reindex":
		reindexCmd.Parse(os.Args[2:])
		err = runReindex()
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: seed <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  load     Insert the opportunities, clients and dossiers of a seed file")
	fmt.Println("  check    Parse a seed file and report problems without touching the database")
	fmt.Println("  reindex  Rebuild the search index from postgres")
}

func connect() (*config.Config, *database.PostgresClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(context.Background()); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return cfg, pg, nil
}

func runLoad(path string, dryRun bool) error {
	f, err := readSeedFile(path)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Printf("Dry run: %d opportunities, %d clients, %d applications\n",
			len(f.Opportunities), len(f.Clients), len(f.Applications))
		return nil
	}

	cfg, pg, err := connect()
	if err != nil {
		return err
	}
	defer pg.Close()

	if cfg.Database.Postgres.AutoMigrate {
		if _, err := pg.Migrate(); err != nil {
			return err
		}
	}

	ctx := context.Background()
	s := store.New(pg.GetDB())

	oppIDs := make(map[string]int64, len(f.Opportunities))
	for _, o := range f.Opportunities {
		created, err := s.Opportunities.Create(ctx, o.NewFundingOpportunity)
		if err != nil {
			return fmt.Errorf("opportunity %q: %w", o.Key, err)
		}
		oppIDs[o.Key] = created.ID
	}

	clientIDs := make(map[string]int64, len(f.Clients))
	for _, c := range f.Clients {
		created, err := s.Clients.Create(ctx, c.NewClient)
		if err != nil {
			return fmt.Errorf("client %q: %w", c.Key, err)
		}
		clientIDs[c.Key] = created.ID
	}

	docs := 0
	for i, a := range f.Applications {
		in := a.NewApplication
		in.ClientID = clientIDs[a.Client]
		in.FundingOpportunityID = oppIDs[a.Opportunity]

		created, err := s.Applications.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("applications[%d]: %w", i, err)
		}
		for _, d := range a.Documents {
			d.ApplicationID = created.ID
			if _, err := s.Documents.Create(ctx, d); err != nil {
				return fmt.Errorf("applications[%d] document %q: %w", i, d.DocumentType, err)
			}
			docs++
		}
	}

	fmt.Printf("Loaded %d opportunities, %d clients, %d applications, %d documents\n",
		len(oppIDs), len(clientIDs), len(f.Applications), docs)
	return nil
}

func runReindex() error {
	cfg, pg, err := connect()
	if err != nil {
		return err
	}
	defer pg.Close()

	if !cfg.Search.Enabled {
		return fmt.Errorf("search is disabled in the configuration")
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}

	ctx := context.Background()
	log := logger.NewStructured(cfg.Logging.Level, "console")
	ix := search.NewIndex(es.Client, cfg.Search, log)
	if err := ix.EnsureIndex(ctx); err != nil {
		return err
	}

	all, err := store.New(pg.GetDB()).Opportunities.List(ctx, query.Filters{SortBy: query.SortDeadline})
	if err != nil {
		return err
	}
	for i := range all {
		if err := ix.Upsert(ctx, &all[i]); err != nil {
			return fmt.Errorf("index opportunity %d: %w", all[i].ID, err)
		}
	}

	fmt.Printf("Indexed %d opportunities into %s\n", len(all), cfg.Search.Index)
	return nil
}
