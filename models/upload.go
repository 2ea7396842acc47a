package models

import "io"

// Upload is a transient voice sample as received from the client. The
// declared content type and size come from the multipart header and are
// what the validator checks; Reader is consumed at most once.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}
