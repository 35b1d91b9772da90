package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/auth"
	apperrors "github.com/Sihamkassim/Gursha-diaries-Backend/internal/errors"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/mail"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/metrics"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/repository"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/validation"
)

const defaultMailTimeout = 10 * time.Second

// AuthService handles account, credential and one-time code operations.
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, error)
	Signin(ctx context.Context, req model.SigninRequest) (*model.SigninResult, error)
	SendVerificationCode(ctx context.Context, req model.EmailRequest) error
	VerifyVerificationCode(ctx context.Context, req model.VerifyCodeRequest) error
	ChangePassword(ctx context.Context, claims *auth.Claims, req model.ChangePasswordRequest) error
	SendForgotPasswordCode(ctx context.Context, req model.EmailRequest) error
	VerifyForgotPasswordCode(ctx context.Context, req model.ResetPasswordRequest) error
}

// AuthDeps are the collaborators of the auth service.
type AuthDeps struct {
	Users       repository.UserRepository
	Hasher      auth.PasswordHasher
	Codes       *auth.CodeService
	Tokens      *auth.TokenService
	Mailer      mail.Mailer
	Validator   *validation.Validator
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	MailTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type authService struct {
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	codes       *auth.CodeService
	tokens      *auth.TokenService
	mailer      mail.Mailer
	validator   *validation.Validator
	metrics     *metrics.Metrics
	logger      *slog.Logger
	mailTimeout time.Duration
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(deps AuthDeps) AuthService {
	s := &authService{
		users:       deps.Users,
		hasher:      deps.Hasher,
		codes:       deps.Codes,
		tokens:      deps.Tokens,
		mailer:      deps.Mailer,
		validator:   deps.Validator,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		mailTimeout: deps.MailTimeout,
		now:         deps.Now,
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.mailTimeout <= 0 {
		s.mailTimeout = defaultMailTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// serverError logs the cause and returns an Internal error that only carries
// a generic message.
func (s *authService) serverError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "auth operation failed", "operation", op, "error", err)
	return apperrors.Internal("Server error", fmt.Errorf("%s: %w", op, err))
}

// Signup creates an unverified account with a hashed password.
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (user *model.User, err error) {
	defer func() { s.metrics.AuthEvent("signup", err) }()

	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Signup(req); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, s.serverError(ctx, "check existing user", err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, s.serverError(ctx, "hash password", err)
	}

	user = &model.User{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same identity.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrUserExists
		}
		return nil, s.serverError(ctx, "create user", err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID.String())
	return user, nil
}

// Signin checks the password and issues a session token.
func (s *authService) Signin(ctx context.Context, req model.SigninRequest) (res *model.SigninResult, err error) {
	defer func() { s.metrics.AuthEvent("signin", err) }()

	if err := s.validator.Signin(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUnknownAccount
		}
		return nil, s.serverError(ctx, "find user", err)
	}

	ok, err := s.hasher.Verify(ctx, req.Password, user.PasswordHash)
	if err != nil {
		return nil, s.serverError(ctx, "verify password", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidPassword
	}

	token, expiresAt, err := s.tokens.Issue(user.ID.String(), user.Email, user.Verified)
	if err != nil {
		return nil, s.serverError(ctx, "issue token", err)
	}
	return &model.SigninResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// SendVerificationCode emails a fresh verification code and stores its
// commitment once the transport has accepted the message.
func (s *authService) SendVerificationCode(ctx context.Context, req model.EmailRequest) (err error) {
	defer func() { s.metrics.AuthEvent("send_verification_code", err) }()

	req.Email = normalizeEmail(req.Email)
	if err := s.validator.SendCode(req); err != nil {
		return err
	}

	user, err := s.findUser(ctx, req.Email, apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}
	if user.Verified {
		return apperrors.ErrAlreadyVerified
	}

	commitment, err := s.deliverCode(ctx, mail.PurposeVerification, user.Email)
	if err != nil {
		return err
	}
	if err := s.users.SetVerificationCode(ctx, user.ID, commitment); err != nil {
		return s.serverError(ctx, "store verification code", err)
	}
	return nil
}

// VerifyVerificationCode marks the account verified when the code matches an
// unexpired commitment. The commitment is consumed in the same write.
func (s *authService) VerifyVerificationCode(ctx context.Context, req model.VerifyCodeRequest) (err error) {
	defer func() { s.metrics.AuthEvent("verify_verification_code", err) }()

	req.Email = normalizeEmail(req.Email)
	if err := s.validator.VerifyCode(req); err != nil {
		return err
	}

	user, err := s.findUser(ctx, req.Email, apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}
	if user.Verified {
		return apperrors.ErrAlreadyVerified
	}
	if err := s.checkCode(user.Verification, req.ProvidedCode); err != nil {
		return err
	}

	consumed, err := s.users.ConsumeVerificationCode(ctx, user.ID, user.Verification.Hash)
	if err != nil {
		return s.serverError(ctx, "consume verification code", err)
	}
	if !consumed {
		return apperrors.ErrCodeMissing
	}

	s.logger.InfoContext(ctx, "user verified", "user_id", user.ID.String())
	return nil
}

// ChangePassword replaces the password of the token holder after re-checking
// the old one. Only verified accounts may change their password.
func (s *authService) ChangePassword(ctx context.Context, claims *auth.Claims, req model.ChangePasswordRequest) (err error) {
	defer func() { s.metrics.AuthEvent("change_password", err) }()

	if claims == nil || !claims.Verified {
		return apperrors.ErrNotVerified
	}
	if err := s.validator.ChangePassword(req); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, model.ID(claims.UserID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return s.serverError(ctx, "find user", err)
	}

	ok, err := s.hasher.Verify(ctx, req.OldPassword, user.PasswordHash)
	if err != nil {
		return s.serverError(ctx, "verify password", err)
	}
	if !ok {
		return apperrors.ErrInvalidOldPassword
	}

	hash, err := s.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return s.serverError(ctx, "hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return s.serverError(ctx, "update password", err)
	}
	return nil
}

// SendForgotPasswordCode emails a password reset code.
func (s *authService) SendForgotPasswordCode(ctx context.Context, req model.EmailRequest) (err error) {
	defer func() { s.metrics.AuthEvent("send_forgot_password_code", err) }()

	req.Email = normalizeEmail(req.Email)
	if err := s.validator.SendCode(req); err != nil {
		return err
	}

	user, err := s.findUser(ctx, req.Email, apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}

	commitment, err := s.deliverCode(ctx, mail.PurposePasswordReset, user.Email)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordResetCode(ctx, user.ID, commitment); err != nil {
		return s.serverError(ctx, "store reset code", err)
	}
	return nil
}

// VerifyForgotPasswordCode sets a new password when the reset code matches an
// unexpired commitment. The commitment is consumed in the same write.
func (s *authService) VerifyForgotPasswordCode(ctx context.Context, req model.ResetPasswordRequest) (err error) {
	defer func() { s.metrics.AuthEvent("verify_forgot_password_code", err) }()

	req.Email = normalizeEmail(req.Email)
	if err := s.validator.ResetPassword(req); err != nil {
		return err
	}

	user, err := s.findUser(ctx, req.Email, apperrors.ErrResetUnknownUser)
	if err != nil {
		return err
	}
	if err := s.checkCode(user.PasswordReset, req.ProvidedCode); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return s.serverError(ctx, "hash password", err)
	}
	consumed, err := s.users.ConsumePasswordResetCode(ctx, user.ID, user.PasswordReset.Hash, hash)
	if err != nil {
		return s.serverError(ctx, "consume reset code", err)
	}
	if !consumed {
		return apperrors.ErrCodeMissing
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", user.ID.String())
	return nil
}

func (s *authService) findUser(ctx context.Context, email string, notFound error) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, s.serverError(ctx, "find user", err)
	}
	return user, nil
}

// checkCode reports why provided cannot redeem stored, or nil when it can.
func (s *authService) checkCode(stored *model.CodeCommitment, provided model.Code) error {
	if stored == nil || stored.Hash == "" {
		return apperrors.ErrCodeMissing
	}
	if !auth.Valid(stored.IssuedAt, s.now()) {
		return apperrors.ErrCodeExpired
	}
	if !s.codes.Matches(provided.String(), stored.Hash) {
		return apperrors.ErrCodeMismatch
	}
	return nil
}

// deliverCode generates a code, mails it within the mail timeout and returns
// the commitment to persist.
func (s *authService) deliverCode(ctx context.Context, purpose mail.Purpose, address string) (model.CodeCommitment, error) {
	label := "verification"
	if purpose == mail.PurposePasswordReset {
		label = "password_reset"
	}

	code, err := s.codes.Generate()
	if err != nil {
		return model.CodeCommitment{}, s.serverError(ctx, "generate code", err)
	}
	msg, err := mail.CodeMessage(purpose, address, code)
	if err != nil {
		return model.CodeCommitment{}, s.serverError(ctx, "render code email", err)
	}
	issuedAt := s.now()

	sendCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	err = s.mailer.Send(sendCtx, msg)
	s.metrics.CodeSent(label, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "code delivery failed", "purpose", label, "error", err)
		return model.CodeCommitment{}, fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, err)
	}

	return model.CodeCommitment{Hash: s.codes.Commit(code), IssuedAt: issuedAt}, nil
}
