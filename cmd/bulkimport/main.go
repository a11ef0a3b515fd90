// Command bulkimport uploads every file in a local directory through the full
// meme pipeline: sanitized blob keys, format validation, metadata rows.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/memebin/service/internal/config"
	"github.com/memebin/service/internal/db"
	"github.com/memebin/service/internal/meme"
	"github.com/memebin/service/internal/storage"
)

func main() {
	dir := flag.String("dir", "my_memes", "directory of media files to import")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatalf("bucket bootstrap failed: %v", err)
	}

	svc := meme.NewService(meme.NewRepository(pool), store)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read directory %q: %v", *dir, err)
	}

	var uploaded, skipped int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := importFile(ctx, svc, filepath.Join(*dir, entry.Name()), entry.Name()); err != nil {
			var unsupported *meme.UnsupportedFormatError
			if errors.As(err, &unsupported) {
				log.Printf("skipping %s: %v", entry.Name(), err)
				skipped++
				continue
			}
			log.Fatalf("import %s: %v", entry.Name(), err)
		}
		log.Printf("uploaded %s", entry.Name())
		uploaded++
	}

	log.Printf("done: %d uploaded, %d skipped", uploaded, skipped)
}

func importFile(ctx context.Context, svc *meme.Service, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = svc.Upload(ctx, name, nil, &meme.FileUpload{
		Filename: name,
		Reader:   f,
		Size:     info.Size(),
	})
	return err
}
