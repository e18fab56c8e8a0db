// Package catalog provides an HTTP client for the book backend API.
//
// # Overview
//
// The backend is a small REST service holding the book list and the admin
// session. This package owns the wire format (JSON records with MongoDB style
// "_id" identities) and the HTTP plumbing; it holds no application state.
//
// # Architecture
//
//   - client.go: HTTP client, cookie jar, request/response handling
//   - types.go: records mirroring the backend schema and request bodies
//   - errors.go: StatusError and the two-way failure taxonomy
//   - catalogtest/: in-memory backend used by tests and `booksite fakeserver`
//
// # Endpoints
//
//   - GET    /books             list books (no session)
//   - GET    /get-current-user  user bound to the session cookie
//   - POST   /login             {username, password}; sets the session cookie
//   - GET    /logout            ends the session
//   - POST   /book              create a book
//   - PUT    /book/:id          update title, description, language
//   - DELETE /book/:id          delete a book
//
// # Sessions
//
// The session cookie lives in a net/http/cookiejar owned by the Client, so a
// single Client represents a single browser-like session for the life of the
// process. Nothing is persisted to disk.
//
// # Error Handling
//
// Non-2xx responses are returned as *StatusError. Classify folds every error
// into one of two kinds:
//
//   - KindBadRequest: any 4xx (malformed request, expired or missing session)
//   - KindGeneral: transport failures, 5xx, undecodable bodies
//
// Requests are never retried. Timeouts come from the http.Client
// (config request_timeout, default 10s) and from the caller's context.
package catalog
