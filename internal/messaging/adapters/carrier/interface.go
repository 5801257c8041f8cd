package carrier

import "context"

// SendRequest holds the data for sending one SMS through the carrier.
type SendRequest struct {
	To   string // canonical phone form
	Body string
}

// SendResult is the carrier's immediate answer to a send attempt.
type SendResult struct {
	SID    string // carrier-issued message identifier
	Status string // carrier's initial status, commonly "queued"
}

// Error carries the carrier's error code and message for a failed send.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Adapter is the outbound SMS transport. One call per recipient; the
// dispatch service handles partial failure across recipients.
type Adapter interface {
	Send(ctx context.Context, req SendRequest) (*SendResult, error)
	Name() string
}
