// Package pkgerror defines the typed errors shared by the application.
//
// Use cases return *Error values that carry a user-facing message, a type and
// a code; the router maps the code to an HTTP status. ErrNotFound is the
// sentinel stores return for unknown IDs.
package pkgerror
