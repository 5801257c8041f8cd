package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/repository"
)

// StatusReconciler applies carrier delivery-status callbacks to ledger
// rows. Replays of the same status for the same SID are harmless
// overwrites; a callback for an unknown SID is a logged anomaly, never a
// failure the carrier gets to see.
type StatusReconciler struct {
	ledger repository.SmsRecordRepository
	logger *slog.Logger
}

// NewStatusReconciler creates a StatusReconciler.
func NewStatusReconciler(ledger repository.SmsRecordRepository, logger *slog.Logger) *StatusReconciler {
	return &StatusReconciler{
		ledger: ledger,
		logger: logger.With("service", "status_reconciler"),
	}
}

// ProcessStatusCallback updates the matching ledger row. The returned
// error reports store unavailability only; it is for the caller's log,
// not for the carrier-facing acknowledgment.
func (r *StatusReconciler) ProcessStatusCallback(ctx context.Context, ev domain.StatusCallbackEvent) error {
	var errorCode, errorMessage *string
	if ev.ErrorCode != "" {
		errorCode = &ev.ErrorCode
	}
	if ev.ErrorMessage != "" {
		errorMessage = &ev.ErrorMessage
	}

	err := r.ledger.UpdateStatus(ctx, ev.MessageSID, domain.MessageStatus(ev.MessageStatus), errorCode, errorMessage)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			// The callback arrived before, or instead of, the insert.
			statusCallbacksCounter.WithLabelValues("unknown_sid").Inc()
			r.logger.WarnContext(ctx, "No SMS record found for status callback",
				"sid", ev.MessageSID, "status", ev.MessageStatus)
			return nil
		}
		statusCallbacksCounter.WithLabelValues("error").Inc()
		r.logger.ErrorContext(ctx, "Failed to update SMS record status",
			"sid", ev.MessageSID, "status", ev.MessageStatus, "error", err)
		return err
	}

	statusCallbacksCounter.WithLabelValues("applied").Inc()
	r.logger.InfoContext(ctx, "SMS status updated", "sid", ev.MessageSID, "status", ev.MessageStatus)
	return nil
}
