package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// Code is a numeric one-time code as submitted by a client. It accepts either
// a JSON number or a string of digits.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("code must be a number or a string")
	}
	if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
		return errors.New("code must be a non-negative integer")
	}
	*c = Code(n.String())
	return nil
}

func (c Code) String() string { return string(c) }

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,min=5,max=50,email,emailtld"`
	Password string `json:"password" validate:"required,alnumpass"`
	FullName string `json:"fullName" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30"`
}

// SigninRequest is the body of POST /api/auth/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResult is what a successful signin hands back to the transport.
type SigninResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// EmailRequest is the body of the send-code endpoints.
type EmailRequest struct {
	Email string `json:"email" validate:"required,min=5,max=50,email,emailtld"`
}

// VerifyCodeRequest is the body of POST /api/auth/verify-verification-code.
type VerifyCodeRequest struct {
	Email        string `json:"email" validate:"required,min=5,max=50,email,emailtld"`
	ProvidedCode Code   `json:"providedCode" validate:"required,otp"`
}

// ChangePasswordRequest is the body of POST /api/auth/change-password.
// OldPassword is only checked against the stored hash, since it may have been
// set through a reset under the wider reset policy.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,alnumpass"`
}

// ResetPasswordRequest is the body of POST /api/auth/verify-forgot-password-code.
type ResetPasswordRequest struct {
	Email        string `json:"email" validate:"required,min=5,max=50,email,emailtld"`
	ProvidedCode Code   `json:"providedCode" validate:"required,otp"`
	NewPassword  string `json:"newPassword" validate:"required,strongpass"`
}
