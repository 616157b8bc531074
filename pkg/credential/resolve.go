package credential

import (
	"errors"
	"fmt"

	"github.com/MatthiasKunnen/slock/pkg/account"
)

// ShadowPlaceholder is the passwd password field value that defers to the shadow database.
const ShadowPlaceholder = "x"

// ErrShadowUnavailable is returned when the passwd entry defers to the shadow database but the
// shadow entry cannot be retrieved.
var ErrShadowUnavailable = errors.New("cannot retrieve shadow entry, make sure to suid or sgid slock")

// Resolver looks up account entries.
type Resolver interface {
	LookupUID(uid int) (*account.Entry, error)
	LookupShadow(name string) (string, error)
}

// Resolve returns the password hash of the user with the given id.
func Resolve(db Resolver, uid int) (string, error) {
	pw, err := db.LookupUID(uid)
	if errors.Is(err, account.ErrNotFound) {
		return "", errors.New("getpwuid: cannot retrieve password entry")
	} else if err != nil {
		return "", fmt.Errorf("getpwuid: %w", err)
	}

	if pw.Password != ShadowPlaceholder {
		return pw.Password, nil
	}

	hash, err := db.LookupShadow(pw.Name)
	if err != nil {
		return "", fmt.Errorf("getspnam: %w: %w", ErrShadowUnavailable, err)
	}

	return hash, nil
}
