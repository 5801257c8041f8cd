package domain

import "errors"

var (
	// ErrInvalidRequest means caller-supplied data was missing or
	// malformed; surfaced as a 400-class error.
	ErrInvalidRequest = errors.New("invalid send request")

	// ErrNoValidRecipients means no recipient survived normalization.
	ErrNoValidRecipients = errors.New("no valid recipient phone numbers provided")

	// ErrAllRecipientsFailed means every per-recipient transport call
	// failed. The per-recipient outcomes are still durably recorded.
	ErrAllRecipientsFailed = errors.New("all messages failed to initiate sending")

	// ErrRecordNotFound is returned by the ledger when no row matches.
	ErrRecordNotFound = errors.New("sms record not found")
)
