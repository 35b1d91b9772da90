// Package validation checks request bodies before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Sihamkassim/Gursha-diaries-Backend/internal/errors"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
)

var (
	alnumPassword = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)
	oneTimeCode   = regexp.MustCompile(`^[0-9]{6}$`)
	allowedTLDs   = []string{"com", "net", "org"}
)

// Validator runs struct-tag rules, including the custom tags emailtld,
// alnumpass, strongpass and otp, and reports the first failure as a
// Validation error.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("emailtld", emailTLD)
	_ = v.RegisterValidation("alnumpass", func(fl validator.FieldLevel) bool {
		return alnumPassword.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpass", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return oneTimeCode.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

func emailTLD(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	i := strings.LastIndexByte(s, '.')
	if i < 0 || strings.IndexByte(s, '@') > i {
		return false
	}
	tld := strings.ToLower(s[i+1:])
	for _, allowed := range allowedTLDs {
		if tld == allowed {
			return true
		}
	}
	return false
}

// StrongPassword reports whether s has at least 8 characters including an
// upper-case letter, a lower-case letter and a digit.
func StrongPassword(s string) bool {
	if len([]rune(s)) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// Struct validates any tagged struct. It is what echo's c.Validate calls.
func (v *Validator) Struct(i interface{}) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.Validation(message(verrs[0]))
	}
	return apperrors.Validation(err.Error())
}

// Signup validates a signup body.
func (v *Validator) Signup(req model.SignupRequest) error {
	return v.Struct(req)
}

// Signin only requires both fields to be present.
func (v *Validator) Signin(req model.SigninRequest) error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.ErrMissingCredentials
	}
	return nil
}

// SendCode validates the body of both send-code endpoints.
func (v *Validator) SendCode(req model.EmailRequest) error {
	return v.Struct(req)
}

// VerifyCode validates a verification-code submission.
func (v *Validator) VerifyCode(req model.VerifyCodeRequest) error {
	return v.Struct(req)
}

// ChangePassword validates a change-password body.
func (v *Validator) ChangePassword(req model.ChangePasswordRequest) error {
	return v.Struct(req)
}

// ResetPassword validates a forgot-password code submission.
func (v *Validator) ResetPassword(req model.ResetPasswordRequest) error {
	return v.Struct(req)
}

func message(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%q must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "email", "emailtld":
		return fmt.Sprintf("%q must be a valid email", field)
	case "otp":
		return fmt.Sprintf("%q must be a 6 digit number", field)
	case "alnumpass":
		return fmt.Sprintf("%q must be 3 to 30 letters or digits", field)
	case "strongpass":
		return fmt.Sprintf("%q must be at least 8 characters with an upper-case letter, a lower-case letter and a digit", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
