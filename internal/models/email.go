package models

import "time"

// Email represents a parsed notification message
type Email struct {
	UID          uint32
	From         string
	Subject      string // raw header value, still RFC 2047 encoded
	Body         string // normalized plain text
	InternalDate time.Time
	TraceID      string
}
