package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/email"
	identityDomain "github.com/harvestChurchAdmin/church-messaging-app/internal/identity/domain"
	identityRepo "github.com/harvestChurchAdmin/church-messaging-app/internal/identity/repository"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/repository"
)

// ReplyRouter resolves an inbound message back to the staff member who
// most recently texted that number and forwards the content as email.
// Routing is best-effort: every expected miss (no history, unknown user,
// missing email) is logged and swallowed so the carrier-facing webhook
// never fails.
type ReplyRouter struct {
	ledger          repository.SmsRecordRepository
	users           identityRepo.UserRepository
	sender          email.Sender
	fromAddress     string
	fromDisplayName string
	logger          *slog.Logger
}

// NewReplyRouter creates a ReplyRouter. fromAddress/fromDisplayName frame
// the forwarded email's From header.
func NewReplyRouter(ledger repository.SmsRecordRepository, users identityRepo.UserRepository, sender email.Sender, fromAddress, fromDisplayName string, logger *slog.Logger) *ReplyRouter {
	return &ReplyRouter{
		ledger:          ledger,
		users:           users,
		sender:          sender,
		fromAddress:     fromAddress,
		fromDisplayName: fromDisplayName,
		logger:          logger.With("service", "reply_router"),
	}
}

// RouteInbound hands the reply off to the email collaborator when a
// routable conversation exists. The returned error reports store or
// sender failures only; expected non-routable outcomes return nil.
func (r *ReplyRouter) RouteInbound(ctx context.Context, ev domain.InboundMessageEvent) error {
	if ev.From == "" || ev.Body == "" {
		inboundRoutedCounter.WithLabelValues("error").Inc()
		r.logger.WarnContext(ctx, "Inbound message missing From or Body, dropping")
		return nil
	}

	normalized := domain.NormalizePhoneNumber(ev.From)
	if normalized == "" {
		inboundRoutedCounter.WithLabelValues("error").Inc()
		r.logger.WarnContext(ctx, "Inbound message sender number did not normalize", "from", ev.From)
		return nil
	}

	rec, err := r.ledger.MostRecentSentTo(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			// Expected: e.g. an unsolicited text to the shared number.
			inboundRoutedCounter.WithLabelValues("no_history").Inc()
			r.logger.InfoContext(ctx, "No routable conversation for inbound message", "from", normalized)
			return nil
		}
		inboundRoutedCounter.WithLabelValues("error").Inc()
		r.logger.ErrorContext(ctx, "Ledger lookup failed for inbound message", "from", normalized, "error", err)
		return err
	}

	user, err := r.users.GetByID(ctx, rec.SenderUserID)
	if err != nil {
		if errors.Is(err, identityDomain.ErrUserNotFound) {
			inboundRoutedCounter.WithLabelValues("no_user").Inc()
			r.logger.WarnContext(ctx, "Original sender not found for inbound message",
				"from", normalized, "sender_user_id", rec.SenderUserID)
			return nil
		}
		inboundRoutedCounter.WithLabelValues("error").Inc()
		r.logger.ErrorContext(ctx, "User lookup failed for inbound message",
			"from", normalized, "sender_user_id", rec.SenderUserID, "error", err)
		return err
	}
	if user.Email == "" {
		inboundRoutedCounter.WithLabelValues("no_email").Inc()
		r.logger.WarnContext(ctx, "Original sender has no email address, cannot forward reply",
			"from", normalized, "sender_user_id", rec.SenderUserID)
		return nil
	}

	reply := email.ReplyEmail{
		ToEmail:             user.Email,
		OriginalSenderName:  user.DisplayName,
		ReplySenderName:     rec.RecipientName,
		ReplySenderNumber:   normalized,
		ReplyBody:           ev.Body,
		OriginalMessageBody: rec.MessageBody,
	}
	raw := reply.Compose(r.fromAddress, r.fromDisplayName)

	if err := r.sender.Send(ctx, []string{user.Email}, reply.Subject(), raw); err != nil {
		inboundRoutedCounter.WithLabelValues("error").Inc()
		r.logger.ErrorContext(ctx, "Failed to forward reply as email",
			"from", normalized, "to_email", user.Email, "error", err)
		return err
	}

	inboundRoutedCounter.WithLabelValues("forwarded").Inc()
	r.logger.InfoContext(ctx, "Reply forwarded as email",
		"from", normalized, "to_email", user.Email, "original_sid", rec.SID)
	return nil
}
