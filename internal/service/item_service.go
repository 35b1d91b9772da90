package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/cache"
	apperrors "github.com/Sihamkassim/Gursha-diaries-Backend/internal/errors"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/repository"
)

const itemCacheTTL = 5 * time.Minute

const anonymousCommenter = "Anonymous"

// ItemService exposes the recipe catalogue.
type ItemService interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	SearchItems(ctx context.Context, query string) ([]model.Item, error)
	ItemsByCategory(ctx context.Context, category string) ([]model.Item, error)
	GetItem(ctx context.Context, id model.ID) (*model.Item, error)
	CreateItem(ctx context.Context, owner model.ID, req model.CreateItemRequest) (*model.Item, error)
	UpdateItem(ctx context.Context, id model.ID, update model.ItemUpdate) (*model.Item, error)
	DeleteItem(ctx context.Context, id model.ID) (*model.Item, error)
	AddComment(ctx context.Context, req model.CommentRequest) (*model.Item, error)
	ImportItems(ctx context.Context, items []model.Item) (int, error)
}

type itemService struct {
	repo   repository.ItemRepository
	cache  *cache.Client
	logger *slog.Logger
}

// NewItemService builds an ItemService with repository and cache. A nil cache
// disables caching.
func NewItemService(repo repository.ItemRepository, cache *cache.Client, logger *slog.Logger) ItemService {
	if logger == nil {
		logger = slog.Default()
	}
	return &itemService{repo: repo, cache: cache, logger: logger}
}

func (s *itemService) cacheKey(id model.ID) string {
	return fmt.Sprintf("item:%s", id)
}

func (s *itemService) serverError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "item operation failed", "operation", op, "error", err)
	return apperrors.Internal("Server error", fmt.Errorf("%s: %w", op, err))
}

// itemError maps a repository error for a single-item lookup.
func (s *itemService) itemError(ctx context.Context, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrItemNotFound
	}
	return s.serverError(ctx, op, err)
}

// ListItems returns every item, newest first.
func (s *itemService) ListItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.serverError(ctx, "list items", err)
	}
	return items, nil
}

// SearchItems matches item names containing query, ignoring case. An empty
// query or no match is reported as ErrNoItems.
func (s *itemService) SearchItems(ctx context.Context, query string) ([]model.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ErrNoItems
	}
	items, err := s.repo.SearchByName(ctx, query)
	if err != nil {
		return nil, s.serverError(ctx, "search items", err)
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNoItems
	}
	return items, nil
}

func (s *itemService) ItemsByCategory(ctx context.Context, category string) ([]model.Item, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.ErrNoItems
	}
	items, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, s.serverError(ctx, "find items by category", err)
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNoItems
	}
	return items, nil
}

func (s *itemService) GetItem(ctx context.Context, id model.ID) (*model.Item, error) {
	var cached model.Item
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.itemError(ctx, "find item", err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), item, itemCacheTTL)
	return item, nil
}

// CreateItem stores a new item owned by owner.
func (s *itemService) CreateItem(ctx context.Context, owner model.ID, req model.CreateItemRequest) (*model.Item, error) {
	item := req.Item(owner)
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, s.serverError(ctx, "create item", err)
	}
	s.logger.InfoContext(ctx, "item created", "item_id", item.ID.String(), "user_id", owner.String())
	return &item, nil
}

// UpdateItem applies the non-nil fields of update. An empty update returns
// the item unchanged.
func (s *itemService) UpdateItem(ctx context.Context, id model.ID, update model.ItemUpdate) (*model.Item, error) {
	if update.Empty() {
		return s.GetItem(ctx, id)
	}
	item, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, s.itemError(ctx, "update item", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return item, nil
}

func (s *itemService) DeleteItem(ctx context.Context, id model.ID) (*model.Item, error) {
	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.itemError(ctx, "delete item", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return item, nil
}

// AddComment appends a comment to an item. The commenter defaults to
// "Anonymous".
func (s *itemService) AddComment(ctx context.Context, req model.CommentRequest) (*model.Item, error) {
	if strings.TrimSpace(req.ItemID.String()) == "" || strings.TrimSpace(req.Comment) == "" {
		return nil, apperrors.Validation("itemId and comment are required")
	}
	user := strings.TrimSpace(req.User)
	if user == "" {
		user = anonymousCommenter
	}

	item, err := s.repo.AddComment(ctx, req.ItemID, model.Comment{User: user, Comment: req.Comment})
	if err != nil {
		return nil, s.itemError(ctx, "add comment", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(req.ItemID))
	return item, nil
}

// ImportItems bulk-inserts catalogue items, as used by the seeder.
func (s *itemService) ImportItems(ctx context.Context, items []model.Item) (int, error) {
	n, err := s.repo.CreateMany(ctx, items)
	if err != nil {
		return n, s.serverError(ctx, "import items", err)
	}
	return n, nil
}
