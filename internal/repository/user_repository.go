package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines credential persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id model.ID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	SetVerificationCode(ctx context.Context, id model.ID, code model.CodeCommitment) error
	SetPasswordResetCode(ctx context.Context, id model.ID, code model.CodeCommitment) error
	UpdatePassword(ctx context.Context, id model.ID, passwordHash string) error
	// ConsumeVerificationCode marks the user verified and clears the verification code
	// in one write, provided the stored commitment still equals hash.
	ConsumeVerificationCode(ctx context.Context, id model.ID, hash string) (bool, error)
	// ConsumePasswordResetCode replaces the password and clears the reset code in one
	// write, provided the stored commitment still equals hash.
	ConsumePasswordResetCode(ctx context.Context, id model.ID, hash, passwordHash string) (bool, error)
}

// userRow is the relational shape of a user.
type userRow struct {
	ID                         string  `gorm:"type:char(36);primaryKey"`
	FullName                   string  `gorm:"size:50;not null"`
	Username                   string  `gorm:"uniqueIndex;size:30;not null"`
	Email                      string  `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash               string  `gorm:"size:255;not null"`
	Verified                   bool    `gorm:"not null;default:false"`
	VerificationCode           *string `gorm:"size:64"`
	VerificationCodeIssuedAt   *time.Time
	ForgotPasswordCode         *string `gorm:"size:64"`
	ForgotPasswordCodeIssuedAt *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (userRow) TableName() string { return "users" }

// BeforeCreate sets UUID before creating the record.
func (r *userRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *userRow) toModel() *model.User {
	u := &model.User{
		ID:           model.ID(r.ID),
		FullName:     r.FullName,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Verified:     r.Verified,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.VerificationCode != nil && r.VerificationCodeIssuedAt != nil {
		u.Verification = &model.CodeCommitment{Hash: *r.VerificationCode, IssuedAt: *r.VerificationCodeIssuedAt}
	}
	if r.ForgotPasswordCode != nil && r.ForgotPasswordCodeIssuedAt != nil {
		u.PasswordReset = &model.CodeCommitment{Hash: *r.ForgotPasswordCode, IssuedAt: *r.ForgotPasswordCodeIssuedAt}
	}
	return u
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRow{})
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	row := &userRow{
		FullName:     user.FullName,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	user.ID = model.ID(row.ID)
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id model.ID) (*model.User, error) {
	return r.first(ctx, "id = ?", id.String())
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userRow{}).
		Where("email = ? OR username = ?", email, username).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) SetVerificationCode(ctx context.Context, id model.ID, code model.CodeCommitment) error {
	return r.update(ctx, id, map[string]interface{}{
		"verification_code":           code.Hash,
		"verification_code_issued_at": code.IssuedAt,
	})
}

func (r *userRepository) SetPasswordResetCode(ctx context.Context, id model.ID, code model.CodeCommitment) error {
	return r.update(ctx, id, map[string]interface{}{
		"forgot_password_code":           code.Hash,
		"forgot_password_code_issued_at": code.IssuedAt,
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id model.ID, passwordHash string) error {
	return r.update(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *userRepository) update(ctx context.Context, id model.ID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id.String()).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ConsumeVerificationCode(ctx context.Context, id model.ID, hash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&userRow{}).
		Where("id = ? AND verification_code = ?", id.String(), hash).
		Updates(map[string]interface{}{
			"verified":                    true,
			"verification_code":           nil,
			"verification_code_issued_at": nil,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *userRepository) ConsumePasswordResetCode(ctx context.Context, id model.ID, hash, passwordHash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&userRow{}).
		Where("id = ? AND forgot_password_code = ?", id.String(), hash).
		Updates(map[string]interface{}{
			"password_hash":                  passwordHash,
			"forgot_password_code":           nil,
			"forgot_password_code_issued_at": nil,
		})
	return res.RowsAffected == 1, res.Error
}
