package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/mail"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id model.ID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetVerificationCode(ctx context.Context, id model.ID, code model.CodeCommitment) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockUserRepository) SetPasswordResetCode(ctx context.Context, id model.ID, code model.CodeCommitment) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id model.ID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) ConsumeVerificationCode(ctx context.Context, id model.ID, hash string) (bool, error) {
	args := m.Called(ctx, id, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ConsumePasswordResetCode(ctx context.Context, id model.ID, hash, passwordHash string) (bool, error) {
	args := m.Called(ctx, id, hash, passwordHash)
	return args.Bool(0), args.Error(1)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockItemRepository is a mock implementation of ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) items(args mock.Arguments) ([]model.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemRepository) item(args mock.Arguments) (*model.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context) ([]model.Item, error) {
	return m.items(m.Called(ctx))
}

func (m *MockItemRepository) SearchByName(ctx context.Context, query string) ([]model.Item, error) {
	return m.items(m.Called(ctx, query))
}

func (m *MockItemRepository) FindByCategory(ctx context.Context, category string) ([]model.Item, error) {
	return m.items(m.Called(ctx, category))
}

func (m *MockItemRepository) FindByID(ctx context.Context, id model.ID) (*model.Item, error) {
	return m.item(m.Called(ctx, id))
}

func (m *MockItemRepository) Create(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) CreateMany(ctx context.Context, items []model.Item) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, id model.ID, update model.ItemUpdate) (*model.Item, error) {
	return m.item(m.Called(ctx, id, update))
}

func (m *MockItemRepository) Delete(ctx context.Context, id model.ID) (*model.Item, error) {
	return m.item(m.Called(ctx, id))
}

func (m *MockItemRepository) AddComment(ctx context.Context, id model.ID, comment model.Comment) (*model.Item, error) {
	return m.item(m.Called(ctx, id, comment))
}
