package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/MatthiasKunnen/slock/pkg/overlay"
)

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "/etc/slock.toml"

// AllKeyrings in Desktop.LockKeyrings locks every Secret Service collection.
const AllKeyrings = "*"

// Config is the complete configuration of the locker. It is built once by Load and never
// mutated afterward.
type Config struct {
	// User and Group name the unprivileged identity the locker drops to.
	User  string `toml:"user"`
	Group string `toml:"group"`

	// FailOnClear shows the error overlay whenever the input is cleared.
	FailOnClear bool `toml:"fail_on_clear"`

	// Display is the X display to lock. Empty means $DISPLAY.
	Display string `toml:"display"`

	Colors  Colors  `toml:"colors"`
	Desktop Desktop `toml:"desktop"`
}

type Colors struct {
	Background Color `toml:"background"`
	Idle       Color `toml:"idle"`
	Typing     Color `toml:"typing"`
	Error      Color `toml:"error"`
}

// Overlay converts c for overlay.Render.
func (c Colors) Overlay() overlay.Colors {
	return overlay.Colors{
		Background: uint32(c.Background),
		Idle:       uint32(c.Idle),
		Typing:     uint32(c.Typing),
		Error:      uint32(c.Error),
	}
}

// Desktop configures the optional D-Bus integration. None of it is needed to lock.
type Desktop struct {
	// LogindHint sets the logind LockedHint while locked.
	LogindHint bool `toml:"logind_hint"`
	// InhibitSleep delays suspend until every screen is locked.
	InhibitSleep bool `toml:"inhibit_sleep"`
	// SessionID is the logind session. Empty means $XDG_SESSION_ID, then the session of the
	// process.
	SessionID string `toml:"session_id"`
	// LockKeyrings lists the Secret Service collections to lock. AllKeyrings locks them all.
	LockKeyrings []string `toml:"lock_keyrings"`
}

// Color is a 0xRRGGBB value written as "#rrggbb" or "#rgb".
type Color uint32

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v

	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// ParseColor parses "#rrggbb" or the short "#rgb" form.
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return 0, fmt.Errorf("invalid color %q: must start with #", s)
	}

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return 0, fmt.Errorf("invalid color %q: want #rgb or #rrggbb", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return Color(v), nil
}

// Default returns the configuration used when no file is read.
func Default() *Config {
	return &Config{
		User:        "nobody",
		Group:       "nogroup",
		FailOnClear: true,
		Colors: Colors{
			Background: 0x121212,
			Idle:       0x5c5c5c,
			Typing:     0x005577,
			Error:      0xcc3333,
		},
		Desktop: Desktop{
			LogindHint:   true,
			InhibitSleep: true,
		},
	}
}

// Load builds the configuration.
//
// When path is non-empty that file must exist. Otherwise DefaultPath is read if present, and
// the defaults are used if it is not.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	cfg, err := LoadFile(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		return cfg, cfg.Validate()
	}

	return cfg, err
}

// LoadFile decodes path over the defaults and validates the result.
// Keys that match no setting are an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.User == "" {
		errs = append(errs, ValidationError{Field: "user", Message: "must not be empty"})
	}
	if c.Group == "" {
		errs = append(errs, ValidationError{Field: "group", Message: "must not be empty"})
	}

	overlays := []struct {
		field string
		color Color
	}{
		{"colors.idle", c.Colors.Idle},
		{"colors.typing", c.Colors.Typing},
		{"colors.error", c.Colors.Error},
	}
	for _, o := range overlays {
		if o.color == c.Colors.Background {
			errs = append(errs, ValidationError{
				Field:   o.field,
				Message: fmt.Sprintf("%s is the background color", o.color),
			})
		}
	}

	for i, k := range c.Desktop.LockKeyrings {
		switch {
		case k == "":
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("desktop.lock_keyrings[%d]", i),
				Message: "must not be empty",
			})
		case k == AllKeyrings && len(c.Desktop.LockKeyrings) > 1:
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("desktop.lock_keyrings[%d]", i),
				Message: fmt.Sprintf("%q cannot be combined with other keyrings", AllKeyrings),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LockAllKeyrings reports whether every Secret Service collection is to be locked.
func (d Desktop) LockAllKeyrings() bool {
	return len(d.LockKeyrings) == 1 && d.LockKeyrings[0] == AllKeyrings
}

// SessionIDOrEnv returns SessionID, falling back to $XDG_SESSION_ID.
func (d Desktop) SessionIDOrEnv() string {
	if d.SessionID != "" {
		return d.SessionID
	}

	return os.Getenv("XDG_SESSION_ID")
}
