package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/config"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/db"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/logging"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/repository"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/service"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/validation"
)

func main() {
	path := flag.String("file", "data/items.json", "JSON array of items to import")
	owner := flag.String("owner", "", "user id recorded as the owner of imported items")
	flag.Parse()

	cfg := config.Load()
	logger := logging.SetDefault("gursha-seed", "dev", cfg.LogFormat)

	items, skipped, err := loadItems(*path, model.ID(*owner))
	if err != nil {
		log.Fatalf("load items: %v", err)
	}
	for _, s := range skipped {
		logger.Warn("skipping item", "reason", s)
	}
	if len(items) == 0 {
		log.Fatalf("no valid items in %s", *path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, database, err := db.NewMongo(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	svc := service.NewItemService(repository.NewMongoItemRepository(database), nil, logger)
	n, err := svc.ImportItems(ctx, items)
	if err != nil {
		log.Fatalf("import items: %v", err)
	}

	logger.Info("seed completed", "imported", n, "skipped", len(skipped))
}

// loadItems decodes and validates the seed file. Invalid entries are reported
// and left out rather than failing the whole import.
func loadItems(path string, owner model.ID) ([]model.Item, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var reqs []json.RawMessage
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	v := validation.New()
	items := make([]model.Item, 0, len(reqs))
	var skipped []string
	for i, entry := range reqs {
		var req model.CreateItemRequest
		if err := json.Unmarshal(entry, &req); err != nil {
			skipped = append(skipped, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		if err := v.Struct(&req); err != nil {
			skipped = append(skipped, fmt.Sprintf("item %d (%s): %v", i, req.Name, err))
			continue
		}
		items = append(items, req.Item(owner))
	}
	return items, skipped, nil
}
