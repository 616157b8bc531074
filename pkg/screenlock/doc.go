// Package screenlock locks every screen of a display and keeps it locked until the user's
// password is entered.
//
// Locking is all-or-nothing: [Acquire] only returns a [Session] once every screen has an
// exclusive pointer and keyboard grab. A session never releases its grabs; they go away with
// the display connection when the process exits.
//
// [Session.Authenticate] runs the single blocking event loop. It reads key presses into a
// [secret.Buffer], switches the status overlay between idle, typing and failed, follows screen
// resizes and rotations, and keeps the lock windows on top of anything that tries to map above
// them.
//
// [secret.Buffer]: https://pkg.go.dev/github.com/MatthiasKunnen/slock/pkg/secret#Buffer
package screenlock
