package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
)

// userDocument is the stored shape of a user. Code timestamps are epoch
// milliseconds, which keeps documents written by earlier deployments readable.
type userDocument struct {
	ID                           primitive.ObjectID `bson:"_id,omitempty"`
	FullName                     string             `bson:"fullName"`
	Username                     string             `bson:"username"`
	Email                        string             `bson:"email"`
	Password                     string             `bson:"password"`
	Verified                     bool               `bson:"verified"`
	VerificationCode             string             `bson:"verificationCode,omitempty"`
	VerificationCodeValidation   int64              `bson:"verificationCodeValidation,omitempty"`
	ForgotPasswordCode           string             `bson:"forgotPasswordCode,omitempty"`
	ForgotPasswordCodeValidation int64              `bson:"forgotPasswordCodeValidation,omitempty"`
	CreatedAt                    time.Time          `bson:"createdAt"`
	UpdatedAt                    time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toModel() *model.User {
	u := &model.User{
		ID:           model.ID(d.ID.Hex()),
		FullName:     d.FullName,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Verified:     d.Verified,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.VerificationCode != "" && d.VerificationCodeValidation != 0 {
		u.Verification = &model.CodeCommitment{
			Hash:     d.VerificationCode,
			IssuedAt: time.UnixMilli(d.VerificationCodeValidation),
		}
	}
	if d.ForgotPasswordCode != "" && d.ForgotPasswordCodeValidation != 0 {
		u.PasswordReset = &model.CodeCommitment{
			Hash:     d.ForgotPasswordCode,
			IssuedAt: time.UnixMilli(d.ForgotPasswordCodeValidation),
		}
	}
	return u
}

// MongoUserRepository stores users in a MongoDB collection.
type MongoUserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewMongoUserRepository creates a user repository over the "users" collection.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection("users"), now: time.Now}
}

var _ UserRepository = (*MongoUserRepository)(nil)

// EnsureIndexes creates the unique indexes on email and username.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("mongo user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	now := r.now().UTC()
	doc := userDocument{
		FullName:  user.FullName,
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("mongo insert user: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("mongo insert user: unexpected id type %T", res.InsertedID)
	}
	user.ID = model.ID(oid.Hex())
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id model.ID) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	filter := bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"username": username}}}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongo count users: %w", err)
	}
	return n > 0, nil
}

func (r *MongoUserRepository) SetVerificationCode(ctx context.Context, id model.ID, code model.CodeCommitment) error {
	return r.set(ctx, id, bson.M{
		"verificationCode":           code.Hash,
		"verificationCodeValidation": code.IssuedAt.UnixMilli(),
	})
}

func (r *MongoUserRepository) SetPasswordResetCode(ctx context.Context, id model.ID, code model.CodeCommitment) error {
	return r.set(ctx, id, bson.M{
		"forgotPasswordCode":           code.Hash,
		"forgotPasswordCodeValidation": code.IssuedAt.UnixMilli(),
	})
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id model.ID, passwordHash string) error {
	return r.set(ctx, id, bson.M{"password": passwordHash})
}

func (r *MongoUserRepository) set(ctx context.Context, id model.ID, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return ErrNotFound
	}
	fields["updatedAt"] = r.now().UTC()
	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("mongo update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) ConsumeVerificationCode(ctx context.Context, id model.ID, hash string) (bool, error) {
	return r.consume(ctx, id, "verificationCode", hash, bson.M{"verified": true})
}

func (r *MongoUserRepository) ConsumePasswordResetCode(ctx context.Context, id model.ID, hash, passwordHash string) (bool, error) {
	return r.consume(ctx, id, "forgotPasswordCode", hash, bson.M{"password": passwordHash})
}

// consume applies set and removes the code field pair, matching only while the
// stored commitment is still hash.
func (r *MongoUserRepository) consume(ctx context.Context, id model.ID, field, hash string, set bson.M) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return false, nil
	}
	set["updatedAt"] = r.now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, field: hash},
		bson.M{
			"$set":   set,
			"$unset": bson.M{field: "", field + "Validation": ""},
		},
	)
	if err != nil {
		return false, fmt.Errorf("mongo consume %s: %w", field, err)
	}
	return res.ModifiedCount == 1, nil
}
