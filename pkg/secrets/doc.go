// Package secrets locks keyrings through [org.freedesktop.Secret].
// Programs that provide this API include Gnome Keyring, KDE Wallet, and keepassxc.
//
// Locking needs no prompt, so it works from a process without a session of its own, as long as
// it can reach the session bus.
//
// [org.freedesktop.Secret]: https://specifications.freedesktop.org/secret-service-spec/latest/
package secrets
