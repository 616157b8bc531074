package account

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultPasswdPath = "/etc/passwd"
	DefaultShadowPath = "/etc/shadow"
)

// ErrNotFound is returned when the database was read successfully but holds no matching entry.
var ErrNotFound = errors.New("entry not found")

// Entry is a single passwd record.
type Entry struct {
	Name     string
	Password string
	UID      int
}

// Database points at the passwd and shadow files. The zero value uses the system defaults.
type Database struct {
	PasswdPath string
	ShadowPath string
}

// LookupUID returns the passwd entry with the given user id.
func (d Database) LookupUID(uid int) (*Entry, error) {
	return d.lookupPasswd(func(e *Entry) bool { return e.UID == uid })
}

// LookupShadow returns the password field of the shadow entry for name.
// Reading the shadow file usually requires elevated privileges.
func (d Database) LookupShadow(name string) (string, error) {
	path := d.ShadowPath
	if path == "" {
		path = DefaultShadowPath
	}

	var hash string
	err := scan(path, func(fields []string) bool {
		if len(fields) < 2 || fields[0] != name {
			return false
		}
		hash = fields[1]
		return true
	})
	if err != nil {
		return "", err
	}

	return hash, nil
}

func (d Database) lookupPasswd(match func(e *Entry) bool) (*Entry, error) {
	path := d.PasswdPath
	if path == "" {
		path = DefaultPasswdPath
	}

	var found *Entry
	err := scan(path, func(fields []string) bool {
		e, ok := parsePasswd(fields)
		if !ok || !match(e) {
			return false
		}
		found = e
		return true
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// scan calls fn for every non-comment line split on ':' until fn returns true.
// ErrNotFound is returned when fn never does.
func scan(path string, fn func(fields []string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if found, err := scanReader(f, fn); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	} else if !found {
		return ErrNotFound
	}

	return nil
}

func scanReader(r io.Reader, fn func(fields []string) bool) (bool, error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		if fn(strings.Split(line, ":")) {
			return true, nil
		}
	}

	return false, s.Err()
}

func parsePasswd(fields []string) (*Entry, bool) {
	if len(fields) < 7 {
		return nil, false
	}

	uid, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, false
	}

	return &Entry{
		Name:     fields[0],
		Password: fields[1],
		UID:      uid,
	}, true
}
