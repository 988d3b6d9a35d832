// Package shell is the interactive front end of the TrustCare client.
//
// Each input line is parsed as a command. Screens are routes guarded by
// routes.RequireAuth and routes.RequireRole; after every command the shell
// renders whatever screen the navigation history now points at. The bearer
// token is held only in memory, so a session ends with the process.
package shell
