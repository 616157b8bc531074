package lock

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDest             = "org.freedesktop.login1"
	dbusPath             = "/org/freedesktop/login1"
	dbusManagerInterface = "org.freedesktop.login1.Manager"
	dbusSessionInterface = "org.freedesktop.login1.Session"
)

type dbusHint struct {
	conn    *dbus.Conn
	session dbus.BusObject
}

// NewDbusSessionHint creates a D-Bus [org.freedesktop.login1] implementation of the Hint
// interface for the given session.
//
// sessionId is the ID of the session, usually the XDG_SESSION_ID env var. When it is empty the
// session of the calling process is used.
//
// The connection is private so it keeps the credentials of the process at the time of the call,
// which matters when privileges are dropped afterward.
//
// [org.freedesktop.login1]: https://www.freedesktop.org/software/systemd/man/latest/org.freedesktop.login1.html
func NewDbusSessionHint(sessionId string) (Hint, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	path, err := findSession(conn.Object(dbusDest, dbusPath), sessionId)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &dbusHint{
		conn:    conn,
		session: conn.Object(dbusDest, path),
	}, nil
}

// findSession resolves the object path of sessionId, or of the caller's own session.
func findSession(manager dbus.BusObject, sessionId string) (dbus.ObjectPath, error) {
	var path dbus.ObjectPath

	if sessionId == "" {
		err := manager.
			Call(dbusManagerInterface+".GetSessionByPID", 0, uint32(os.Getpid())).
			Store(&path)
		if err != nil {
			return "", fmt.Errorf("failed to find session of process: %w", err)
		}

		return path, nil
	}

	var sessions []interface{}
	err := manager.Call(dbusManagerInterface+".ListSessions", 0).Store(&sessions)
	if err != nil {
		return "", fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessionPath(sessions, sessionId)
}

// sessionPath picks the object path of sessionId from a ListSessions reply.
// Each entry is (id, uid, user, seat, path).
func sessionPath(sessions []interface{}, sessionId string) (dbus.ObjectPath, error) {
	for i, sessionInt := range sessions {
		session, ok := sessionInt.([]interface{})
		if !ok || len(session) < 5 {
			return "", fmt.Errorf("session %d is not a session struct: %+v", i, sessionInt)
		}

		currentSessionId, ok := session[0].(string)
		if !ok {
			return "", fmt.Errorf("session %d[0] is not a string: %+v", i, session[0])
		}

		if currentSessionId != sessionId {
			continue
		}

		path, ok := session[4].(dbus.ObjectPath)
		if !ok {
			return "", fmt.Errorf("session %d[4] is not an ObjectPath: %+v", i, session[4])
		}

		return path, nil
	}

	return "", fmt.Errorf("session %q not found", sessionId)
}

func (dh *dbusHint) SetLocked(locked bool) error {
	err := dh.session.Call(dbusSessionInterface+".SetLockedHint", 0, locked).Err
	if err != nil {
		return fmt.Errorf("could not set locked hint: %w", err)
	}

	return nil
}

func (dh *dbusHint) GetLocked() (bool, error) {
	variant, err := dh.session.GetProperty(dbusSessionInterface + ".LockedHint")
	if err != nil {
		return false, fmt.Errorf("could not get locked hint: %w", err)
	}

	lockedHint, ok := variant.Value().(bool)
	if !ok {
		return false, fmt.Errorf("LockedHint property result is not a boolean")
	}

	return lockedHint, nil
}

func (dh *dbusHint) Close() error {
	return dh.conn.Close()
}
