package auth

import (
	"crypto/subtle"

	"github.com/rpupo63/portfolio-backend/errs"
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks the single admin password. A bcrypt hash takes
// precedence over a plaintext password.
type PasswordVerifier struct {
	plain string
	hash  []byte
}

func NewPasswordVerifier(plain, hash string) PasswordVerifier {
	return PasswordVerifier{plain: plain, hash: []byte(hash)}
}

func (v PasswordVerifier) Configured() bool {
	return len(v.hash) > 0 || v.plain != ""
}

// Check returns errs.ErrConfigMissing when no password is configured and
// errs.ErrBadCredentials on a mismatch.
func (v PasswordVerifier) Check(candidate string) error {
	switch {
	case len(v.hash) > 0:
		if err := bcrypt.CompareHashAndPassword(v.hash, []byte(candidate)); err != nil {
			return errs.ErrBadCredentials
		}
		return nil
	case v.plain != "":
		if subtle.ConstantTimeCompare([]byte(v.plain), []byte(candidate)) != 1 {
			return errs.ErrBadCredentials
		}
		return nil
	default:
		return errs.ErrConfigMissing
	}
}

// HashPassword produces the value for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
