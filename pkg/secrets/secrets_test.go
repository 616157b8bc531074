package secrets

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestObjectPath(t *testing.T) {
	cases := map[string]dbus.ObjectPath{
		"login":                                 "/org/freedesktop/secrets/collection/login",
		"aliases/default":                       "/org/freedesktop/secrets/aliases/default",
		"/org/freedesktop/secrets/collection/x": "/org/freedesktop/secrets/collection/x",
	}

	for in, want := range cases {
		assert.Equal(t, want, ObjectPath(in), in)
	}
}
