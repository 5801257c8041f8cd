package http

// SendMessageRequest is the body of POST /api/messages. The sender's
// user id comes from the authenticated session, not the payload.
type SendMessageRequest struct {
	To            string `json:"to"` // comma-separated numbers
	Message       string `json:"message"`
	RecipientName string `json:"recipientName"`
	SenderName    string `json:"senderName"`
}

// SendMessageResponse reports the carrier SIDs of successful sends.
type SendMessageResponse struct {
	Success bool     `json:"success"`
	SIDs    []string `json:"sids"`
}

// ErrorResponse is the JSON error envelope for API endpoints.
type ErrorResponse struct {
	Message string `json:"message"`
}
