package domain

// StatusCallbackEvent is the validated form of a carrier delivery-status
// webhook. It is parsed and checked at the HTTP boundary before anything
// downstream sees it.
type StatusCallbackEvent struct {
	MessageSID    string `json:"message_sid" validate:"required"`
	MessageStatus string `json:"message_status" validate:"required"`
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// InboundMessageEvent is the validated form of a carrier inbound-message
// webhook: a reply (or unsolicited text) to the shared number.
type InboundMessageEvent struct {
	From string `json:"from" validate:"required"`
	Body string `json:"body" validate:"required"`
}
