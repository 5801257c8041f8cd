package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// MessageStatus is the lifecycle state of one outbound SMS attempt.
// The carrier walks a row through queued -> sent -> delivered | failed |
// undelivered; failed_to_send is terminal and set locally when the
// transport call itself errored.
type MessageStatus string

const (
	MessageStatusQueued       MessageStatus = "queued"
	MessageStatusAccepted     MessageStatus = "accepted"
	MessageStatusSending      MessageStatus = "sending"
	MessageStatusSent         MessageStatus = "sent"
	MessageStatusDelivered    MessageStatus = "delivered"
	MessageStatusUndelivered  MessageStatus = "undelivered"
	MessageStatusFailed       MessageStatus = "failed"
	MessageStatusFailedToSend MessageStatus = "failed_to_send"
)

// Value implements the driver.Valuer interface for MessageStatus.
func (ms MessageStatus) Value() (driver.Value, error) {
	return string(ms), nil
}

// Scan implements the sql.Scanner interface for MessageStatus.
func (ms *MessageStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan MessageStatus: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*ms = MessageStatus(strVal)
	return nil
}

// PlaceholderSIDPrefix marks locally generated stand-in SIDs written when
// the carrier never returned one. They share the primary-key space with
// real carrier SIDs, so they must stay visually distinguishable.
const PlaceholderSIDPrefix = "failed-"

// IsPlaceholderSID reports whether sid was generated locally for a send
// that never reached the carrier.
func IsPlaceholderSID(sid string) bool {
	return strings.HasPrefix(sid, PlaceholderSIDPrefix)
}

// SmsRecord is one durable ledger row: a single outbound message attempt
// to a single recipient. Rows are never deleted; only Status, ErrorCode,
// ErrorMessage and UpdatedAt change after creation.
type SmsRecord struct {
	SID           string        `json:"sid"`
	ToPhoneNumber string        `json:"to_phone_number"` // canonical form, never raw input
	MessageBody   string        `json:"message_body"`
	SenderUserID  string        `json:"sender_user_id"`
	Status        MessageStatus `json:"status"`
	ErrorCode     *string       `json:"error_code,omitempty"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
	RecipientName string        `json:"recipient_name"`
	SenderName    string        `json:"sender_name"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
