// Command emptybucket deletes every blob in the meme bucket. Metadata rows are
// left alone; run it against a bucket whose table has already been cleared, or
// to reclaim orphaned blobs after a full reset.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/memebin/service/internal/config"
	"github.com/memebin/service/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "list keys without deleting")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	store, err := newStorage(cfg, cfg.StorageEndpoint)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Some providers serve bucket listing from a different host than object
	// access. Build a second, independently configured client for listing
	// rather than ever reconfiguring the main one.
	lister := store
	if cfg.StorageListEndpoint != "" && cfg.StorageListEndpoint != cfg.StorageEndpoint {
		lister, err = newStorage(cfg, cfg.StorageListEndpoint)
		if err != nil {
			log.Fatalf("listing storage init failed: %v", err)
		}
	}

	var deleted int
	err = lister.ListKeys(ctx, func(key string) error {
		if *dryRun {
			log.Printf("would delete %s", key)
			return nil
		}
		if err := store.Delete(ctx, key); err != nil {
			return err
		}
		log.Printf("deleted %s", key)
		deleted++
		return nil
	})
	if err != nil {
		log.Fatalf("empty bucket: %v", err)
	}

	log.Printf("done: %d objects deleted", deleted)
}

func newStorage(cfg *config.Config, endpoint string) (*storage.MinioStorage, error) {
	return storage.NewMinioStorage(
		endpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
}
