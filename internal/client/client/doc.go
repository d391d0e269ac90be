// Package client contains the client-side building blocks that talk to the
// recipe server and bootstrap local storage.
//
// # Overview
//
// The package provides:
//  1. A single REST wrapper (HTTPClient.Do) that every screen goes through:
//     base URL joining, JSON bodies, bearer token injection from a
//     TokenSource, per-request X-Request-ID, and uniform error mapping.
//  2. Typed endpoint helpers on top of Do (auth, registration, recipes,
//     courses, users) and the Client interface the services depend on.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers are *RequestError
// carrying the status and the server's message (or a per-call default);
// 401/403 match ErrUnauthorized and 404 matches common.ErrNotFound through
// errors.Is. Requests are never retried.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call takes a context and
// honors cancellation; a canceled call returns the context's error.
package client
