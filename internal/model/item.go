package model

import "time"

// Ingredient is a named quantity in a recipe.
type Ingredient struct {
	Name     string `json:"name" bson:"name" validate:"required"`
	Quantity string `json:"quantity" bson:"quantity" validate:"required"`
}

// Comment is a reader remark on an item.
type Comment struct {
	User    string `json:"user" bson:"user" validate:"required"`
	Comment string `json:"comment" bson:"comment" validate:"required"`
}

// Details holds the preparation metadata shown alongside a recipe.
type Details struct {
	PrepTime   string `json:"prep_time" bson:"prep_time" validate:"required"`
	CookTime   string `json:"cook_time" bson:"cook_time" validate:"required"`
	Services   string `json:"services" bson:"services" validate:"required"`
	Difficulty string `json:"Difficulty" bson:"Difficulty" validate:"required"`
	Source     string `json:"source" bson:"source" validate:"required"`
}

// Item is a recipe entry in the catalogue.
type Item struct {
	ID             ID           `json:"_id"`
	MenuID         int          `json:"menuId"`
	Name           string       `json:"name"`
	ThumbnailImage string       `json:"thumbnail_image"`
	Category       string       `json:"category"`
	Instructions   string       `json:"instructions"`
	Tags           []string     `json:"tags"`
	Ingredients    []Ingredient `json:"ingredients"`
	Comments       []Comment    `json:"comments"`
	More           []Details    `json:"more"`
	UserID         ID           `json:"userId"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// ItemUpdate carries the fields of a partial item update; nil fields are left alone.
type ItemUpdate struct {
	MenuID         *int          `json:"menuId"`
	Name           *string       `json:"name"`
	ThumbnailImage *string       `json:"thumbnail_image"`
	Category       *string       `json:"category"`
	Instructions   *string       `json:"instructions"`
	Tags           *[]string     `json:"tags"`
	Ingredients    *[]Ingredient `json:"ingredients" validate:"omitempty,min=1,dive"`
	More           *[]Details    `json:"more" validate:"omitempty,min=1,dive"`
}

// Empty reports whether the update changes nothing.
func (u ItemUpdate) Empty() bool {
	return u.MenuID == nil && u.Name == nil && u.ThumbnailImage == nil && u.Category == nil &&
		u.Instructions == nil && u.Tags == nil && u.Ingredients == nil && u.More == nil
}

// CreateItemRequest is the body of POST /api/itemss. The owner comes from the
// session token, never from the body.
type CreateItemRequest struct {
	MenuID         *int         `json:"menuId" validate:"required"`
	Name           string       `json:"name" validate:"required"`
	ThumbnailImage string       `json:"thumbnail_image" validate:"required"`
	Category       string       `json:"category" validate:"required"`
	Instructions   string       `json:"instructions" validate:"required"`
	Tags           []string     `json:"tags"`
	Ingredients    []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Comments       []Comment    `json:"comments" validate:"omitempty,dive"`
	More           []Details    `json:"more" validate:"required,min=1,dive"`
}

// Item builds the stored item owned by userID.
func (r CreateItemRequest) Item(userID ID) Item {
	item := Item{
		Name:           r.Name,
		ThumbnailImage: r.ThumbnailImage,
		Category:       r.Category,
		Instructions:   r.Instructions,
		Tags:           r.Tags,
		Ingredients:    r.Ingredients,
		Comments:       r.Comments,
		More:           r.More,
		UserID:         userID,
	}
	if r.MenuID != nil {
		item.MenuID = *r.MenuID
	}
	return item
}

// CommentRequest is the body of POST /api/comments.
type CommentRequest struct {
	ItemID  ID     `json:"itemId"`
	User    string `json:"user"`
	Comment string `json:"comment"`
}
