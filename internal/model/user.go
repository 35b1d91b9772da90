package model

import "time"

// ID is an opaque identifier. Storage backends map it to their native key type.
type ID string

func (id ID) String() string { return string(id) }

// CodeCommitment is a stored one-time code: the HMAC of the code and when it was issued.
// Keeping both in one value means neither can exist without the other.
type CodeCommitment struct {
	Hash     string    `json:"-"`
	IssuedAt time.Time `json:"-"`
}

// User represents an account holder.
type User struct {
	ID            ID              `json:"id"`
	FullName      string          `json:"fullName"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"` // Never expose in JSON
	Verified      bool            `json:"verified"`
	Verification  *CodeCommitment `json:"-"`
	PasswordReset *CodeCommitment `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
