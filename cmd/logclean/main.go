// Command logclean bulk-clears aged api_logs rows. The API itself never
// deletes from the trail; retention is this tool's job.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/atlasgate/countryhub/internal/config"
	"github.com/atlasgate/countryhub/internal/db"
	"github.com/atlasgate/countryhub/internal/repo/postgres"
)

func main() {
	retention := flag.Duration("retention", 30*24*time.Hour, "delete rows older than this")
	all := flag.Bool("all", false, "delete every row regardless of age")
	flag.Parse()

	cfg := config.Load()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	defer pool.Close()

	repo := postgres.NewAPILogsRepo(pool, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var deleted int64

	if *all {
		deleted, err = repo.DeleteAll(ctx)
	} else {
		cutoff := time.Now().UTC().Add(-*retention)
		deleted, err = repo.DeleteOlderThan(ctx, cutoff)
	}

	if err != nil {
		log.Fatalf("log cleanup failed: %v", err)
	}

	log.Printf("deleted %d api log rows", deleted)
}
