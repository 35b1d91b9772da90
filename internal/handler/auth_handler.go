package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Sihamkassim/Gursha-diaries-Backend/internal/errors"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/service"
)

// AuthCookieName is the cookie that carries "Bearer <token>".
const AuthCookieName = "Authorization"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie httpOnly and secure, as required in production.
func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// SignupResponse is returned after a successful signup.
type SignupResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	UserID  model.ID `json:"userId"`
}

// SigninResponse is returned after a successful signin.
type SigninResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Token    string   `json:"token"`
	UserID   model.ID `json:"userId"`
	FullName string   `json:"fullName"`
	Username string   `json:"username"`
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Signup data"
// @Success 201 {object} SignupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req model.SignupRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}

	user, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, SignupResponse{
		Success: true,
		Message: "User created successfully",
		UserID:  user.ID,
	})
}

// Signin godoc
// @Summary Sign in
// @Description Returns a session token and sets it as the Authorization cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.SigninRequest true "Credentials"
// @Success 200 {object} SigninResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req model.SigninRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}

	res, err := h.authService.Signin(c.Request().Context(), req)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    "Bearer " + res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: h.secureCookie,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, SigninResponse{
		Success:  true,
		Message:  "User signed in successfully",
		Token:    res.Token,
		UserID:   res.User.ID,
		FullName: res.User.FullName,
		Username: res.User.Username,
	})
}

// Signout godoc
// @Summary Sign out
// @Description Clears the Authorization cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: h.secureCookie,
		Secure:   h.secureCookie,
	})
	return c.JSON(http.StatusOK, ok("User signed out successfully"))
}

// SendVerificationCode godoc
// @Summary Email a verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.EmailRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/send-verification-code [patch]
// @Router /auth/send-verification-code [post]
func (h *AuthHandler) SendVerificationCode(c echo.Context) error {
	var req model.EmailRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}
	if err := h.authService.SendVerificationCode(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Verification code sent successfully"))
}

// VerifyVerificationCode godoc
// @Summary Verify an account with an emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.VerifyCodeRequest true "Email and code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/verify-verification-code [post]
func (h *AuthHandler) VerifyVerificationCode(c echo.Context) error {
	var req model.VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}
	if err := h.authService.VerifyVerificationCode(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Your account has been verified"))
}

// ChangePassword godoc
// @Summary Change the password of the signed-in account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, found := ClaimsFrom(c)
	if !found {
		return apperrors.New(apperrors.KindUnauthorized, "Unauthorized: Invalid or expired token")
	}

	var req model.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}
	if err := h.authService.ChangePassword(c.Request().Context(), claims, req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Password updated!"))
}

// SendForgotPasswordCode godoc
// @Summary Email a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.EmailRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/send-forgot-password-code [post]
// @Router /auth/send-forgot-password-code [patch]
func (h *AuthHandler) SendForgotPasswordCode(c echo.Context) error {
	var req model.EmailRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}
	if err := h.authService.SendForgotPasswordCode(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Code sent!"))
}

// VerifyForgotPasswordCode godoc
// @Summary Reset a password with an emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.ResetPasswordRequest true "Email, code and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/verify-forgot-password-code [post]
func (h *AuthHandler) VerifyForgotPasswordCode(c echo.Context) error {
	var req model.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}
	if err := h.authService.VerifyForgotPasswordCode(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Password updated!"))
}
