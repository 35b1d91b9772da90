package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	// CodeValidity is how long an emailed code can be redeemed after issuance.
	CodeValidity = 5 * time.Minute

	codeMin = 100000
	codeMax = 999999
)

// CodeService issues numeric one-time codes and the HMAC commitments stored in
// their place.
type CodeService struct {
	secret []byte
	rand   io.Reader
}

// NewCodeService creates a code service keyed by secret.
func NewCodeService(secret string) *CodeService {
	return &CodeService{secret: []byte(secret), rand: rand.Reader}
}

// Generate returns a 6-digit code in [100000, 999999].
func (s *CodeService) Generate() (string, error) {
	n, err := rand.Int(s.rand, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// Commit returns the hex HMAC-SHA256 of code under the service secret.
func (s *CodeService) Commit(code string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// Matches reports whether code commits to commitment.
func (s *CodeService) Matches(code, commitment string) bool {
	return hmac.Equal([]byte(s.Commit(code)), []byte(commitment))
}

// Valid reports whether a code issued at issuedAt is still redeemable at now.
func Valid(issuedAt, now time.Time) bool {
	return now.Sub(issuedAt) <= CodeValidity
}
