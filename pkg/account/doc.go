// Package account reads the local passwd and shadow databases.
//
// Only the fields the locker needs are exposed. Lookups distinguish a database that could not
// be read from an entry that does not exist, see [ErrNotFound].
package account
