package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/auth"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Signin(ctx context.Context, req model.SigninRequest) (*model.SigninResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SigninResult), args.Error(1)
}

func (m *MockAuthService) SendVerificationCode(ctx context.Context, req model.EmailRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) VerifyVerificationCode(ctx context.Context, req model.VerifyCodeRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, claims *auth.Claims, req model.ChangePasswordRequest) error {
	return m.Called(ctx, claims, req).Error(0)
}

func (m *MockAuthService) SendForgotPasswordCode(ctx context.Context, req model.EmailRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) VerifyForgotPasswordCode(ctx context.Context, req model.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

// MockItemService is a mock implementation of service.ItemService.
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) items(args mock.Arguments) ([]model.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemService) item(args mock.Arguments) (*model.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemService) ListItems(ctx context.Context) ([]model.Item, error) {
	return m.items(m.Called(ctx))
}

func (m *MockItemService) SearchItems(ctx context.Context, query string) ([]model.Item, error) {
	return m.items(m.Called(ctx, query))
}

func (m *MockItemService) ItemsByCategory(ctx context.Context, category string) ([]model.Item, error) {
	return m.items(m.Called(ctx, category))
}

func (m *MockItemService) GetItem(ctx context.Context, id model.ID) (*model.Item, error) {
	return m.item(m.Called(ctx, id))
}

func (m *MockItemService) CreateItem(ctx context.Context, owner model.ID, req model.CreateItemRequest) (*model.Item, error) {
	return m.item(m.Called(ctx, owner, req))
}

func (m *MockItemService) UpdateItem(ctx context.Context, id model.ID, update model.ItemUpdate) (*model.Item, error) {
	return m.item(m.Called(ctx, id, update))
}

func (m *MockItemService) DeleteItem(ctx context.Context, id model.ID) (*model.Item, error) {
	return m.item(m.Called(ctx, id))
}

func (m *MockItemService) AddComment(ctx context.Context, req model.CommentRequest) (*model.Item, error) {
	return m.item(m.Called(ctx, req))
}

func (m *MockItemService) ImportItems(ctx context.Context, items []model.Item) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}
