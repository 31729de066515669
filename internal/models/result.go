package models

// Result represents what the ticket service did with a single message
type Result int

const (
	ResultSkipped Result = iota
	ResultRejected
	ResultAccepted
)

func (r Result) String() string {
	switch r {
	case ResultRejected:
		return "rejected"
	case ResultAccepted:
		return "accepted"
	default:
		return "skipped"
	}
}
