package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/adapters/carrier"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/repository"
)

// SendRequest is one logical send: a comma-separated recipient list plus
// the message body and the display names captured for reply framing.
type SendRequest struct {
	To            string `validate:"required"`
	Message       string `validate:"required"`
	SenderUserID  string `validate:"required"`
	RecipientName string `validate:"required"`
	SenderName    string `validate:"required"`
}

// SendResult carries the carrier-issued SIDs of the recipients that were
// successfully handed to the transport.
type SendResult struct {
	SIDs []string `json:"sids"`
}

// DispatchService fans a send request out to one carrier call per
// recipient and writes one ledger row per recipient, success or failure.
type DispatchService struct {
	ledger   repository.SmsRecordRepository
	carrier  carrier.Adapter
	validate *validator.Validate
	logger   *slog.Logger
}

// NewDispatchService creates a DispatchService.
func NewDispatchService(ledger repository.SmsRecordRepository, carrierAdapter carrier.Adapter, logger *slog.Logger) *DispatchService {
	return &DispatchService{
		ledger:   ledger,
		carrier:  carrierAdapter,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("service", "dispatch"),
	}
}

// Send dispatches the message to every recipient in parallel. Partial
// failure is normal: one recipient failing never aborts the others, and a
// failed send still gets a ledger row. It fails with
// domain.ErrAllRecipientsFailed only when no recipient reached the
// carrier at all.
func (s *DispatchService) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	var recipients []string
	for _, part := range strings.Split(req.To, ",") {
		normalized := domain.NormalizePhoneNumber(strings.TrimSpace(part))
		if normalized != "" {
			recipients = append(recipients, normalized)
		}
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoValidRecipients
	}

	// Scatter: independent per-recipient sends, gathered without
	// short-circuiting. Workers always return nil so no sibling is
	// cancelled by another recipient's failure.
	sids := make([]string, len(recipients))
	g, gctx := errgroup.WithContext(ctx)
	for i, number := range recipients {
		i, number := i, number
		g.Go(func() error {
			sids[i] = s.sendOne(gctx, number, req)
			return nil
		})
	}
	_ = g.Wait()

	var realSIDs []string
	for _, sid := range sids {
		if sid != "" && !domain.IsPlaceholderSID(sid) {
			realSIDs = append(realSIDs, sid)
		}
	}
	if len(realSIDs) == 0 {
		return nil, domain.ErrAllRecipientsFailed
	}

	s.logger.InfoContext(ctx, "Send initiated",
		"recipients", len(recipients), "succeeded", len(realSIDs), "sender_user_id", req.SenderUserID)
	return &SendResult{SIDs: realSIDs}, nil
}

// sendOne performs the carrier call for a single recipient and writes its
// ledger row unconditionally. It returns the row's SID, which is a local
// placeholder when the transport call failed.
func (s *DispatchService) sendOne(ctx context.Context, number string, req SendRequest) string {
	rec := &domain.SmsRecord{
		ToPhoneNumber: number,
		MessageBody:   req.Message,
		SenderUserID:  req.SenderUserID,
		Status:        domain.MessageStatusQueued,
		RecipientName: req.RecipientName,
		SenderName:    req.SenderName,
	}

	start := time.Now()
	result, err := s.carrier.Send(ctx, carrier.SendRequest{To: number, Body: req.Message})
	carrierSendDurationHist.WithLabelValues(s.carrier.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		rec.SID = newPlaceholderSID()
		rec.Status = domain.MessageStatusFailedToSend

		var carrierErr *carrier.Error
		if errors.As(err, &carrierErr) {
			if carrierErr.Code != "" {
				code := carrierErr.Code
				rec.ErrorCode = &code
			}
			msg := carrierErr.Message
			rec.ErrorMessage = &msg
		} else {
			msg := err.Error()
			rec.ErrorMessage = &msg
		}

		messagesDispatchedCounter.WithLabelValues(s.carrier.Name(), "failed_to_send").Inc()
		s.logger.ErrorContext(ctx, "Failed to send SMS", "to", number, "sid", rec.SID, "error", err)
	} else {
		rec.SID = result.SID
		if result.Status != "" {
			rec.Status = domain.MessageStatus(result.Status)
		}
		messagesDispatchedCounter.WithLabelValues(s.carrier.Name(), "sent").Inc()
		s.logger.InfoContext(ctx, "SMS initiated", "to", number, "sid", rec.SID, "status", rec.Status)
	}

	// Unconditional: a failed send must still be observable in history.
	// A ledger-write failure is logged but does not undo the send.
	if insErr := s.ledger.Insert(ctx, rec); insErr != nil {
		s.logger.ErrorContext(ctx, "Failed to save SMS record", "sid", rec.SID, "error", insErr)
	}

	return rec.SID
}

// newPlaceholderSID generates a collision-resistant local SID for a send
// the carrier never acknowledged.
func newPlaceholderSID() string {
	return fmt.Sprintf("%s%d-%s", domain.PlaceholderSIDPrefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}
