// Package pkgrouter wraps HTTP routing and common middleware used by the service.
//
// Handlers return a payload or an error. The payload type decides how it is
// written: Redirect, View and Attachment are written as a 303 redirect, an
// HTML page and a file download; anything else is JSON encoded inside the
// standard envelope. Redirects may carry a notice, which travels to the next
// request in a signed one-shot cookie and is read back with Notice.
package pkgrouter
