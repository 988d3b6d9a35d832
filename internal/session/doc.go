// Package session holds the client-side authentication state: the bearer
// token cell and the session snapshot derived from it.
//
// Both live in process memory only. Nothing in this package writes to disk,
// the config file or the environment, so a restarted process always starts
// anonymous.
//
// Write access is a capability: New returns the readable *Session together
// with its *Writer, and only the auth controller is handed the Writer.
package session
