// Package oom keeps the kernel's out-of-memory killer away from the locker, so memory pressure
// can never kill it and unlock the session.
package oom
