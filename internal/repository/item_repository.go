package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
)

// ItemRepository defines item persistence operations.
type ItemRepository interface {
	List(ctx context.Context) ([]model.Item, error)
	SearchByName(ctx context.Context, query string) ([]model.Item, error)
	FindByCategory(ctx context.Context, category string) ([]model.Item, error)
	FindByID(ctx context.Context, id model.ID) (*model.Item, error)
	Create(ctx context.Context, item *model.Item) error
	CreateMany(ctx context.Context, items []model.Item) (int, error)
	Update(ctx context.Context, id model.ID, update model.ItemUpdate) (*model.Item, error)
	Delete(ctx context.Context, id model.ID) (*model.Item, error)
	AddComment(ctx context.Context, id model.ID, comment model.Comment) (*model.Item, error)
}

type itemDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	MenuID         int                `bson:"menuId"`
	Name           string             `bson:"name"`
	ThumbnailImage string             `bson:"thumbnail_image"`
	Category       string             `bson:"category"`
	Instructions   string             `bson:"instructions"`
	Tags           []string           `bson:"tags"`
	Ingredients    []model.Ingredient `bson:"ingredients"`
	Comments       []model.Comment    `bson:"comments"`
	More           []model.Details    `bson:"more"`
	UserID         string             `bson:"userId"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (d *itemDocument) toModel() model.Item {
	return model.Item{
		ID:             model.ID(d.ID.Hex()),
		MenuID:         d.MenuID,
		Name:           d.Name,
		ThumbnailImage: d.ThumbnailImage,
		Category:       d.Category,
		Instructions:   d.Instructions,
		Tags:           nonNil(d.Tags),
		Ingredients:    nonNil(d.Ingredients),
		Comments:       nonNil(d.Comments),
		More:           nonNil(d.More),
		UserID:         model.ID(d.UserID),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func newItemDocument(item *model.Item, now time.Time) itemDocument {
	return itemDocument{
		MenuID:         item.MenuID,
		Name:           item.Name,
		ThumbnailImage: item.ThumbnailImage,
		Category:       item.Category,
		Instructions:   item.Instructions,
		Tags:           nonNil(item.Tags),
		Ingredients:    nonNil(item.Ingredients),
		Comments:       nonNil(item.Comments),
		More:           nonNil(item.More),
		UserID:         item.UserID.String(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MongoItemRepository handles item document CRUD in MongoDB.
type MongoItemRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewMongoItemRepository creates an item repository over the "items" collection.
func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{col: db.Collection("items"), now: time.Now}
}

var _ ItemRepository = (*MongoItemRepository)(nil)

func (r *MongoItemRepository) List(ctx context.Context) ([]model.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// SearchByName matches items whose name contains query, ignoring case.
func (r *MongoItemRepository) SearchByName(ctx context.Context, query string) ([]model.Item, error) {
	return r.find(ctx, bson.M{"name": containsFold(query)})
}

// FindByCategory matches items whose category contains category, ignoring case.
func (r *MongoItemRepository) FindByCategory(ctx context.Context, category string) ([]model.Item, error) {
	return r.find(ctx, bson.M{"category": containsFold(category)})
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (r *MongoItemRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]model.Item, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongo find items: %w", err)
	}
	defer cur.Close(ctx)

	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode items: %w", err)
	}
	items := make([]model.Item, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toModel())
	}
	return items, nil
}

func (r *MongoItemRepository) FindByID(ctx context.Context, id model.ID) (*model.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return nil, ErrNotFound
	}
	var doc itemDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo find item: %w", err)
	}
	item := doc.toModel()
	return &item, nil
}

func (r *MongoItemRepository) Create(ctx context.Context, item *model.Item) error {
	doc := newItemDocument(item, r.now().UTC())
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("mongo insert item: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("mongo insert item: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	*item = doc.toModel()
	return nil
}

// CreateMany inserts items in one batch and returns how many were stored.
func (r *MongoItemRepository) CreateMany(ctx context.Context, items []model.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	now := r.now().UTC()
	docs := make([]interface{}, 0, len(items))
	for i := range items {
		docs = append(docs, newItemDocument(&items[i], now))
	}
	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("mongo insert items: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (r *MongoItemRepository) Update(ctx context.Context, id model.ID, update model.ItemUpdate) (*model.Item, error) {
	set := bson.M{"updatedAt": r.now().UTC()}
	if update.MenuID != nil {
		set["menuId"] = *update.MenuID
	}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.ThumbnailImage != nil {
		set["thumbnail_image"] = *update.ThumbnailImage
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Instructions != nil {
		set["instructions"] = *update.Instructions
	}
	if update.Tags != nil {
		set["tags"] = nonNil(*update.Tags)
	}
	if update.Ingredients != nil {
		set["ingredients"] = *update.Ingredients
	}
	if update.More != nil {
		set["more"] = *update.More
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *MongoItemRepository) AddComment(ctx context.Context, id model.ID, comment model.Comment) (*model.Item, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	})
}

func (r *MongoItemRepository) findOneAndUpdate(ctx context.Context, id model.ID, update bson.M) (*model.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return nil, ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc itemDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo update item: %w", err)
	}
	item := doc.toModel()
	return &item, nil
}

// Delete removes the item and returns what was stored.
func (r *MongoItemRepository) Delete(ctx context.Context, id model.ID) (*model.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return nil, ErrNotFound
	}
	var doc itemDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo delete item: %w", err)
	}
	item := doc.toModel()
	return &item, nil
}
