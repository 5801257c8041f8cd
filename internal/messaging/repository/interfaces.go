package repository

import (
	"context"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
)

// SmsRecordRepository is the durable send-attempt ledger. The dispatch
// service and the status reconciler are its only writers; reply routing
// and the history view are read-only consumers.
type SmsRecordRepository interface {
	// Insert creates a new ledger row. If a row with the same SID already
	// exists the insert degrades into a status update on the existing row
	// rather than failing the caller.
	Insert(ctx context.Context, rec *domain.SmsRecord) error

	// UpdateStatus sets status/error fields and bumps updated_at.
	// Returns domain.ErrRecordNotFound when no row has that SID.
	UpdateStatus(ctx context.Context, sid string, status domain.MessageStatus, errorCode, errorMessage *string) error

	// MostRecentSentTo returns the newest row whose recipient number
	// equals the (already normalized) argument, or domain.ErrRecordNotFound.
	MostRecentSentTo(ctx context.Context, toPhoneNumber string) (*domain.SmsRecord, error)

	// ListAll returns every ledger row, newest first.
	ListAll(ctx context.Context) ([]*domain.SmsRecord, error)
}
