package credential

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/md5_crypt"
	_ "github.com/GehirnInc/crypt/sha256_crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt"
	"github.com/go-crypt/x/yescrypt"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnsupportedHash is returned for hashes that no known scheme can reproduce, including
// locked accounts ("!", "*") and empty fields.
var ErrUnsupportedHash = errors.New("unsupported hash format")

// Verifier checks candidate passwords against a stored hash.
type Verifier struct {
	hash   string
	scheme scheme
}

type scheme interface {
	// match hashes password with the stored hash as salt and compares the result.
	match(password []byte) (bool, error)
}

// NewVerifier returns a Verifier for hash.
// The hash is only accepted once hashing the empty password with it succeeds, so a corrupt or
// unsupported hash is detected before any password is read.
func NewVerifier(hash string) (*Verifier, error) {
	var s scheme
	switch {
	case isBcrypt(hash):
		s = bcryptScheme{hash: []byte(hash)}
	case strings.HasPrefix(hash, "$y$"):
		s = yescryptScheme{hash: []byte(hash)}
	case crypt.IsHashSupported(hash):
		s = cryptScheme{hash: hash, crypter: crypt.NewFromHash(hash)}
	default:
		return nil, ErrUnsupportedHash
	}

	if _, err := s.match(nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedHash, err)
	}

	return &Verifier{hash: hash, scheme: s}, nil
}

// Match reports whether password hashes to the stored hash.
// An error means the password could not be hashed; it is not a mismatch.
func (v *Verifier) Match(password []byte) (bool, error) {
	return v.scheme.match(password)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}

type cryptScheme struct {
	hash    string
	crypter crypt.Crypter
}

func (c cryptScheme) match(password []byte) (bool, error) {
	computed, err := c.crypter.Generate(password, []byte(c.hash))
	if err != nil {
		return false, fmt.Errorf("crypt: %w", err)
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(c.hash)) == 1, nil
}

type bcryptScheme struct {
	hash []byte
}

func (b bcryptScheme) match(password []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(b.hash, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt: %w", err)
	}
}

// yescryptScheme covers the "$y$" hashes libxcrypt writes by default.
type yescryptScheme struct {
	hash []byte
}

func (y yescryptScheme) match(password []byte) (bool, error) {
	computed, err := yescrypt.Hash(password, y.hash)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(computed, y.hash) == 1, nil
}
