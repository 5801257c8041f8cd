package email

import (
	"fmt"
	"html"
	"strings"
)

// ReplyEmail is the rendering input for an SMS reply forwarded as email.
type ReplyEmail struct {
	ToEmail             string // original sender's email address
	OriginalSenderName  string // display name of the staff member who texted
	ReplySenderName     string // display name captured at send time
	ReplySenderNumber   string
	ReplyBody           string
	OriginalMessageBody string // the outbound message, for context
}

// Subject renders the email subject line, truncating the original
// message to keep it scannable in an inbox.
func (e ReplyEmail) Subject() string {
	preview := e.OriginalMessageBody
	if runes := []rune(preview); len(runes) > 30 {
		preview = string(runes[:30])
	}
	return fmt.Sprintf("SMS Reply from %s (%s) regarding %q...", e.ReplySenderName, e.ReplySenderNumber, preview)
}

// Compose renders the full raw message: headers plus multipart/alternative
// text and HTML bodies.
func (e ReplyEmail) Compose(fromAddress, fromDisplayName string) []byte {
	const boundary = "reply-email-boundary"

	textBody := fmt.Sprintf(
		"Hello %s,\nYou received a reply to your SMS message:\n\n"+
			"Original Message: %q\nReply From: %s (%s)\nReply: %q\n\n"+
			"This message was automatically forwarded to you by the %s app.\n"+
			"Please do not reply directly to this email.",
		e.OriginalSenderName, e.OriginalMessageBody, e.ReplySenderName,
		e.ReplySenderNumber, e.ReplyBody, fromDisplayName,
	)

	htmlBody := fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>You received a reply to your SMS message:</p>"+
			"<p><strong>Original Message:</strong> %q</p>"+
			"<p><strong>Reply From:</strong> %s (%s)</p>"+
			"<p><strong>Reply:</strong> %q</p>"+
			"<br>"+
			"<p>This message was automatically forwarded to you by the %s app.</p>"+
			"<p>Please do not reply directly to this email.</p>",
		html.EscapeString(e.OriginalSenderName), html.EscapeString(e.OriginalMessageBody),
		html.EscapeString(e.ReplySenderName), html.EscapeString(e.ReplySenderNumber),
		html.EscapeString(e.ReplyBody), html.EscapeString(fromDisplayName),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromDisplayName, fromAddress)
	fmt.Fprintf(&b, "To: %s\r\n", e.ToEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject())
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
