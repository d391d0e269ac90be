// Package cli provides the interactive recetario command-line client.
//
// It wires configuration, device storage, the REST client and the services,
// and runs a REPL over them. Browsing works without an account; rating,
// creating recipes and buying courses need a login.
//
// Key features:
//   - Register / Login / Logout, password reset and saved passwords
//   - Debounced recipe search with paging (search, author, rating, list, more)
//   - Scaling recipes and keeping the scaled versions on the device
//   - Rating and creating recipes, with optional photo upload
//   - Browsing, buying and attending courses
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
