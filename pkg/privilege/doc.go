// Package privilege resolves the unprivileged identity the locker runs as and irreversibly
// switches the process to it.
package privilege
