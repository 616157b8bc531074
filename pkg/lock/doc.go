// Package lock publishes the locked state of a login session.
// The default implementation implements systemd-logind's LockedHint using its D-Bus interface,
// [org.freedesktop.login1].
//
// [org.freedesktop.login1]: https://www.freedesktop.org/software/systemd/man/latest/org.freedesktop.login1.html
package lock
