package secrets

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDest             = "org.freedesktop.secrets"
	dbusServiceInterface = "org.freedesktop.Secret.Service"
	dbusPath             = "/org/freedesktop/secrets"

	// noPrompt is the prompt path returned when no prompt is needed.
	noPrompt dbus.ObjectPath = "/"
)

type Secrets struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// New connects to the Secret Service on a private session bus connection.
func New() (*Secrets, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	s := &Secrets{
		conn: conn,
	}
	s.obj = conn.Object(dbusDest, dbusPath)

	return s, nil
}

// ObjectPath maps a collection name to its object path.
// A bare name such as "login" refers to a collection. A relative path is taken relative to
// "/org/freedesktop/secrets/" and an absolute path is used as is.
func ObjectPath(name string) dbus.ObjectPath {
	switch {
	case strings.HasPrefix(name, "/"):
		return dbus.ObjectPath(name)
	case strings.Contains(name, "/"):
		return dbus.ObjectPath(dbusPath + "/" + name)
	default:
		return dbus.ObjectPath(dbusPath + "/collection/" + name)
	}
}

// Lock locks the given collections or items. See ObjectPath for how names are resolved.
func (s *Secrets) Lock(paths []string) error {
	objs := make([]dbus.ObjectPath, len(paths))
	for i, path := range paths {
		objs[i] = ObjectPath(path)
	}

	return s.lock(objs)
}

// LockAll locks every collection of the service.
func (s *Secrets) LockAll() error {
	variant, err := s.obj.GetProperty(dbusServiceInterface + ".Collections")
	if err != nil {
		return fmt.Errorf("could not list collections: %w", err)
	}

	objs, ok := variant.Value().([]dbus.ObjectPath)
	if !ok {
		return fmt.Errorf("Collections property result is not a list of object paths")
	}
	if len(objs) == 0 {
		return nil
	}

	return s.lock(objs)
}

func (s *Secrets) lock(objs []dbus.ObjectPath) error {
	var locked []dbus.ObjectPath
	var prompt dbus.ObjectPath

	err := s.obj.Call(dbusServiceInterface+".Lock", 0, objs).Store(&locked, &prompt)
	if err != nil {
		return fmt.Errorf("could not lock collection: %w", err)
	}
	if prompt != noPrompt && prompt != "" {
		return fmt.Errorf("locking %d object(s) requires a prompt, %d locked", len(objs), len(locked))
	}

	return nil
}

func (s *Secrets) Close() error {
	return s.conn.Close()
}
