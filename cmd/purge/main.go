// File: cmd/purge/main.go
//
// Deletes leftover vector stores from runs that died before cleanup.
// Matches stores whose name starts with ingest.store_prefix.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"vector-doc-search/internal/config"
	aiAdapters "vector-doc-search/internal/infra/adapters/ai"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	dryRun := flag.Bool("dry-run", false, "list matching stores without deleting")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	svc, err := aiAdapters.NewAzureOpenAIAdapter(&cfg.AI)
	if err != nil {
		log.Fatalf("azure openai adapter: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stores, err := svc.ListStores(ctx)
	if err != nil {
		log.Fatalf("list stores: %v", err)
	}

	matched, deleted := 0, 0
	for _, s := range stores {
		if !strings.HasPrefix(s.Name, cfg.Ingest.StorePrefix) {
			continue
		}
		matched++
		if *dryRun {
			log.Printf("would delete store %s (%s)", s.ID, s.Name)
			continue
		}
		if err := svc.DeleteStore(ctx, s.ID); err != nil {
			log.Printf("delete store %s: %v", s.ID, err)
			continue
		}
		deleted++
		log.Printf("deleted store %s (%s)", s.ID, s.Name)
	}
	log.Printf("purge done: %d matched, %d deleted", matched, deleted)
}
