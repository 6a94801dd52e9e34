package pkgrouter

import "net/http"

// Redirect sends the client to Location with a 303, optionally leaving a
// notice for the page it lands on.
type Redirect struct {
	Location string
	Notice   string
}

// View renders the named HTML template with Data.
type View struct {
	Name   string
	Data   any
	Status int
}

func (v View) statusCode() int {
	if v.Status == 0 {
		return http.StatusOK
	}
	return v.Status
}

// Attachment is written as a file download.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}
