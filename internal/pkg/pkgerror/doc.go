// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// An Error carries a user-facing message next to the underlying cause. JSON
// routes map it to a status code; HTML routes show the message as a notice on
// the page the user is redirected to.
package pkgerror
