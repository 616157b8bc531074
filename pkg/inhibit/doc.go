// Package inhibit takes systemd-logind inhibitor locks through its D-Bus interface,
// [org.freedesktop.login1].
//
// [org.freedesktop.login1]: https://www.freedesktop.org/software/systemd/man/latest/org.freedesktop.login1.html
package inhibit
