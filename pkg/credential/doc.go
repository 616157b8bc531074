// Package credential resolves the invoking user's password hash and verifies candidate passwords
// against it.
//
// Supported formats are the crypt(3) MD5 ($1$), SHA-256 ($5$) and SHA-512 ($6$) schemes and
// bcrypt ($2a$, $2b$, $2y$).
package credential
