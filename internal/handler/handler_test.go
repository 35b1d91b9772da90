package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/auth"
	apperrors "github.com/Sihamkassim/Gursha-diaries-Backend/internal/errors"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/validation"
)

type structValidator struct {
	v *validation.Validator
}

func (sv structValidator) Validate(i interface{}) error { return sv.v.Struct(i) }

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.Validator = structValidator{v: validation.New()}
	return e
}

// serve runs h the way the router would, including the error handler.
func serve(e *echo.Echo, h echo.HandlerFunc, method, target, body string, prepare func(echo.Context)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if prepare != nil {
		prepare(c)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func withClaims(userID string) func(echo.Context) {
	return func(c echo.Context) {
		c.Set(ContextKeyUser, &auth.Claims{UserID: userID, Email: "abebe@example.com", Verified: true})
	}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setupMock   func(*MockAuthService)
		wantStatus  int
		wantMessage string
	}{
		{
			name: "created",
			body: `{"email":"abebe@example.com","password":"secret1","fullName":"Abebe Kebede","username":"abebe"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, model.SignupRequest{
					Email: "abebe@example.com", Password: "secret1", FullName: "Abebe Kebede", Username: "abebe",
				}).Return(&model.User{ID: "u1"}, nil)
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "User created successfully",
		},
		{
			name:        "malformed body",
			body:        `{"email":`,
			setupMock:   func(m *MockAuthService) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name: "duplicate account",
			body: `{"email":"abebe@example.com","password":"secret1","fullName":"Abebe Kebede","username":"abebe"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserExists)
			},
			wantStatus:  http.StatusConflict,
			wantMessage: "Email or username already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setupMock(svc)
			h := NewAuthHandler(svc, false)

			rec := serve(newTestEcho(), h.Signup, http.MethodPost, "/api/auth/signup", tt.body, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Equal(t, tt.wantStatus < 300, body["success"])
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "u1", body["userId"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_SigninSetsCookie(t *testing.T) {
	expires := time.Now().Add(auth.SessionTokenExpiry).Truncate(time.Second)
	for _, secure := range []bool{false, true} {
		svc := new(MockAuthService)
		svc.On("Signin", mock.Anything, model.SigninRequest{Email: "abebe@example.com", Password: "secret1"}).
			Return(&model.SigninResult{
				Token:     "tok",
				ExpiresAt: expires,
				User:      &model.User{ID: "u1", FullName: "Abebe Kebede", Username: "abebe"},
			}, nil)
		h := NewAuthHandler(svc, secure)

		rec := serve(newTestEcho(), h.Signin, http.MethodPost, "/api/auth/signin",
			`{"email":"abebe@example.com","password":"secret1"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "User signed in successfully", body["message"])
		assert.Equal(t, "tok", body["token"])
		assert.Equal(t, "u1", body["userId"])
		assert.Equal(t, "Abebe Kebede", body["fullName"])
		assert.Equal(t, "abebe", body["username"])

		ck := findCookie(rec, AuthCookieName)
		require.NotNil(t, ck)
		assert.Equal(t, "Bearer tok", ck.Value)
		assert.Equal(t, "/", ck.Path)
		assert.True(t, ck.Expires.Equal(expires.UTC()))
		assert.Equal(t, secure, ck.HttpOnly)
		assert.Equal(t, secure, ck.Secure)
	}
}

func TestAuthHandler_SigninFailures(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Signin", mock.Anything, model.SigninRequest{Email: "ghost@example.com", Password: "secret1"}).
		Return(nil, apperrors.ErrUnknownAccount)
	svc.On("Signin", mock.Anything, model.SigninRequest{Email: "abebe@example.com", Password: "secret1"}).
		Return(nil, apperrors.Internal("Server error", errors.New("connection reset")))
	h := NewAuthHandler(svc, false)
	e := newTestEcho()

	rec := serve(e, h.Signin, http.MethodPost, "/api/auth/signin", `{"email":"ghost@example.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec)["message"])
	assert.Nil(t, findCookie(rec, AuthCookieName))

	rec = serve(e, h.Signin, http.MethodPost, "/api/auth/signin", `{"email":"abebe@example.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decode(t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestAuthHandler_SignoutClearsCookie(t *testing.T) {
	h := NewAuthHandler(new(MockAuthService), false)

	rec := serve(newTestEcho(), h.Signout, http.MethodPost, "/api/auth/signout", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User signed out successfully", decode(t, rec)["message"])
	ck := findCookie(rec, AuthCookieName)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Less(t, ck.MaxAge, 0)
}

func TestAuthHandler_CodeEndpoints(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SendVerificationCode", mock.Anything, model.EmailRequest{Email: "abebe@example.com"}).Return(nil)
	svc.On("VerifyVerificationCode", mock.Anything, model.VerifyCodeRequest{Email: "abebe@example.com", ProvidedCode: "123456"}).Return(nil)
	svc.On("SendForgotPasswordCode", mock.Anything, model.EmailRequest{Email: "ghost@example.com"}).Return(apperrors.ErrUserNotFound)
	svc.On("VerifyForgotPasswordCode", mock.Anything, model.ResetPasswordRequest{
		Email: "abebe@example.com", ProvidedCode: "654321", NewPassword: "Secret123",
	}).Return(nil)
	h := NewAuthHandler(svc, false)
	e := newTestEcho()

	rec := serve(e, h.SendVerificationCode, http.MethodPatch, "/api/auth/send-verification-code", `{"email":"abebe@example.com"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Verification code sent successfully", decode(t, rec)["message"])

	// Numeric codes are accepted as JSON numbers.
	rec = serve(e, h.VerifyVerificationCode, http.MethodPost, "/api/auth/verify-verification-code",
		`{"email":"abebe@example.com","providedCode":123456}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Your account has been verified", decode(t, rec)["message"])

	rec = serve(e, h.SendForgotPasswordCode, http.MethodPost, "/api/auth/send-forgot-password-code", `{"email":"ghost@example.com"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User does not exist", decode(t, rec)["message"])

	rec = serve(e, h.VerifyForgotPasswordCode, http.MethodPost, "/api/auth/verify-forgot-password-code",
		`{"email":"abebe@example.com","providedCode":"654321","newPassword":"Secret123"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password updated!", decode(t, rec)["message"])

	svc.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ChangePassword", mock.Anything, mock.MatchedBy(func(c *auth.Claims) bool { return c.UserID == "u1" }),
		model.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"}).Return(nil)
	h := NewAuthHandler(svc, false)
	e := newTestEcho()
	body := `{"oldPassword":"secret1","newPassword":"secret2"}`

	rec := serve(e, h.ChangePassword, http.MethodPost, "/api/auth/change-password", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, h.ChangePassword, http.MethodPost, "/api/auth/change-password", body, withClaims("u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password updated!", decode(t, rec)["message"])
	svc.AssertExpectations(t)
}

const validItemBody = `{
	"menuId": 3,
	"name": "Doro Wat",
	"thumbnail_image": "https://img.example.com/doro.jpg",
	"category": "Stew",
	"instructions": "Simmer slowly.",
	"tags": ["spicy"],
	"ingredients": [{"name": "Chicken", "quantity": "1 kg"}],
	"more": [{"prep_time": "30m", "cook_time": "2h", "services": "4", "Difficulty": "Hard", "source": "Family"}]
}`

func TestItemHandler_CreateItem(t *testing.T) {
	svc := new(MockItemService)
	svc.On("CreateItem", mock.Anything, model.ID("u1"), mock.MatchedBy(func(r model.CreateItemRequest) bool {
		return r.Name == "Doro Wat" && r.MenuID != nil && *r.MenuID == 3
	})).Return(&model.Item{ID: "i1", Name: "Doro Wat", UserID: "u1"}, nil)
	h := NewItemHandler(svc)
	e := newTestEcho()

	rec := serve(e, h.CreateItem, http.MethodPost, "/api/itemss", validItemBody, withClaims("u1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Item created successfully", body["message"])
	assert.Equal(t, "i1", body["item"].(map[string]interface{})["_id"])

	invalid := strings.Replace(validItemBody, `"name": "Doro Wat",`, "", 1)
	rec = serve(e, h.CreateItem, http.MethodPost, "/api/itemss", invalid, withClaims("u1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"name" is required`, decode(t, rec)["message"])

	svc.AssertNumberOfCalls(t, "CreateItem", 1)
}

func TestItemHandler_Reads(t *testing.T) {
	svc := new(MockItemService)
	svc.On("ListItems", mock.Anything).Return([]model.Item{{ID: "i2"}, {ID: "i1"}}, nil)
	svc.On("SearchItems", mock.Anything, "wat").Return([]model.Item{{ID: "i1", Name: "Doro Wat"}}, nil)
	svc.On("SearchItems", mock.Anything, "").Return(nil, apperrors.ErrNoItems)
	svc.On("GetItem", mock.Anything, model.ID("i1")).Return(&model.Item{ID: "i1", Name: "Doro Wat"}, nil)
	svc.On("GetItem", mock.Anything, model.ID("nope")).Return(nil, apperrors.ErrItemNotFound)
	svc.On("ItemsByCategory", mock.Anything, "stew").Return([]model.Item{{ID: "i1"}}, nil)
	h := NewItemHandler(svc)
	e := newTestEcho()
	param := func(name, value string) func(echo.Context) {
		return func(c echo.Context) {
			c.SetParamNames(name)
			c.SetParamValues(value)
		}
	}

	rec := serve(e, h.ListItems, http.MethodGet, "/api/all-items", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = serve(e, h.SearchItems, http.MethodGet, "/api/items?q=wat", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, h.SearchItems, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No items found", decode(t, rec)["message"])

	rec = serve(e, h.GetItem, http.MethodGet, "/api/items/i1", "", param("id", "i1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Doro Wat", decode(t, rec)["name"])

	rec = serve(e, h.GetItem, http.MethodGet, "/api/items/nope", "", param("id", "nope"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found with this ID", decode(t, rec)["message"])

	rec = serve(e, h.ItemsByCategory, http.MethodGet, "/api/category/stew", "", param("category", "stew"))
	assert.Equal(t, http.StatusOK, rec.Code)

	svc.AssertExpectations(t)
}

func TestItemHandler_Mutations(t *testing.T) {
	name := "Doro Wat (mild)"
	svc := new(MockItemService)
	svc.On("UpdateItem", mock.Anything, model.ID("i1"), model.ItemUpdate{Name: &name}).
		Return(&model.Item{ID: "i1", Name: name}, nil)
	svc.On("DeleteItem", mock.Anything, model.ID("i1")).Return(&model.Item{ID: "i1"}, nil)
	svc.On("AddComment", mock.Anything, model.CommentRequest{ItemID: "i1", Comment: "Great"}).
		Return(&model.Item{ID: "i1", Comments: []model.Comment{{User: "Anonymous", Comment: "Great"}}}, nil)
	h := NewItemHandler(svc)
	e := newTestEcho()
	withID := func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues("i1")
	}

	rec := serve(e, h.UpdateItem, http.MethodPut, "/api/itemss/i1", `{"name":"Doro Wat (mild)"}`, withID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item updated successfully", decode(t, rec)["message"])

	rec = serve(e, h.UpdateItem, http.MethodPut, "/api/itemss/i1", `{"ingredients":[]}`, withID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, h.DeleteItem, http.MethodDelete, "/api/itemss/i1", "", withID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item deleted successfully", decode(t, rec)["message"])

	rec = serve(e, h.AddComment, http.MethodPost, "/api/comments", `{"itemId":"i1","comment":"Great"}`, withClaims("u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Comment added successfully", decode(t, rec)["message"])

	svc.AssertExpectations(t)
}

func TestErrorHandler_EchoErrors(t *testing.T) {
	e := newTestEcho()
	e.GET("/known", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Found", body["message"])

	req = httptest.NewRequest(http.MethodGet, "/known", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	e.HTTPErrorHandler(errors.New("disk full"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decode(t, rec)["message"])
}
