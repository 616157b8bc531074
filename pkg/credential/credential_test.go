package credential

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MatthiasKunnen/slock/pkg/account"
)

// Generated with `openssl passwd -6 -salt saltsalt secret` and friends.
const (
	sha512Secret = "$6$saltsalt$TVLlQcbpFVof5W3Yz4DTP6gRstiNuHwwTt6GLc1E5n0U0aDehy0S5knV8wiOQSpT0Y77vwPZN.Pq.H91p5hVO1"
	sha256Secret = "$5$saltsalt$0IyaXrmV7.sGNS6tirgqHLqX/G.FBvgkYA.lpPdS5sA"
	md5Secret    = "$1$saltsalt$9xy1btjgzLYfb7hivXtC//"

	// libxcrypt default cost, password "test5"
	yescryptTest5 = "$y$j9T$fqIAg4Vpv9o1MKgWMnyax.$BxkUx27fLJlPOfyIfNEBPzjrDQ95LXKgN5OJii3GL7."
)

type fakeDB struct {
	entries   map[int]*account.Entry
	lookupErr error
	shadow    map[string]string
	shadowErr error
}

func (f *fakeDB) LookupUID(uid int) (*account.Entry, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	e, ok := f.entries[uid]
	if !ok {
		return nil, account.ErrNotFound
	}
	return e, nil
}

func (f *fakeDB) LookupShadow(name string) (string, error) {
	if f.shadowErr != nil {
		return "", f.shadowErr
	}
	h, ok := f.shadow[name]
	if !ok {
		return "", account.ErrNotFound
	}
	return h, nil
}

func TestResolveDirectHash(t *testing.T) {
	db := &fakeDB{entries: map[int]*account.Entry{
		1000: {Name: "alice", Password: sha512Secret, UID: 1000},
	}}

	hash, err := Resolve(db, 1000)
	require.NoError(t, err)
	assert.Equal(t, sha512Secret, hash)
}

func TestResolveFollowsShadow(t *testing.T) {
	db := &fakeDB{
		entries: map[int]*account.Entry{1000: {Name: "alice", Password: "x", UID: 1000}},
		shadow:  map[string]string{"alice": sha256Secret},
	}

	hash, err := Resolve(db, 1000)
	require.NoError(t, err)
	assert.Equal(t, sha256Secret, hash)
}

func TestResolveMissingShadowIsFatal(t *testing.T) {
	db := &fakeDB{
		entries:   map[int]*account.Entry{1000: {Name: "alice", Password: "x", UID: 1000}},
		shadowErr: errors.New("permission denied"),
	}

	_, err := Resolve(db, 1000)
	assert.ErrorIs(t, err, ErrShadowUnavailable)
}

func TestResolveDistinguishesNotFound(t *testing.T) {
	_, err := Resolve(&fakeDB{}, 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot retrieve password entry")

	readErr := errors.New("input/output error")
	_, err = Resolve(&fakeDB{lookupErr: readErr}, 1000)
	assert.ErrorIs(t, err, readErr)
}

func TestVerifierCryptSchemes(t *testing.T) {
	for name, tc := range map[string]struct {
		hash     string
		password string
	}{
		"sha512":   {sha512Secret, "secret"},
		"sha256":   {sha256Secret, "secret"},
		"md5":      {md5Secret, "secret"},
		"yescrypt": {yescryptTest5, "test5"},
	} {
		t.Run(name, func(t *testing.T) {
			v, err := NewVerifier(tc.hash)
			require.NoError(t, err)

			ok, err := v.Match([]byte(tc.password))
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = v.Match([]byte("wrong"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestVerifierBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	v, err := NewVerifier(string(hash))
	require.NoError(t, err)

	ok, err := v.Match([]byte("secret"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Match([]byte("wrong"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifierRejectsUnusableHashes(t *testing.T) {
	for _, hash := range []string{"", "!", "*", "!$6$saltsalt$abc", "$y$a$broken", "$2b$xx$broken"} {
		_, err := NewVerifier(hash)
		assert.ErrorIs(t, err, ErrUnsupportedHash, "hash %q", hash)
	}
}
