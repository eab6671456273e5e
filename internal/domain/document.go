package domain

import "time"

// Document is a whole JSON record in the key/value store. Revision counts
// successful writes and is used for compare-and-swap on save.
type Document struct {
	Key       string
	Body      []byte
	Version   int
	Revision  int64
	UpdatedAt time.Time
}
