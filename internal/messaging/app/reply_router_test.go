package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/harvestChurchAdmin/church-messaging-app/internal/identity/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
)

func newTestRouter(ledger *fakeLedger, users *MockUserRepository, sender *MockEmailSender) *ReplyRouter {
	return NewReplyRouter(ledger, users, sender, "noreply@example.org", "Harvest Church Messenger", testLogger())
}

func TestReplyRouter_LatestSenderWins(t *testing.T) {
	ledger := newFakeLedger()
	ctx := context.Background()

	// Two staff members texted the same number; the later send owns the reply.
	require.NoError(t, ledger.Insert(ctx, &domain.SmsRecord{
		SID: "SM200", ToPhoneNumber: "+15551234567", MessageBody: "First outreach",
		SenderUserID: "user-early", RecipientName: "John Doe", SenderName: "Pastor Dave",
		Status: domain.MessageStatusSent,
	}))
	require.NoError(t, ledger.Insert(ctx, &domain.SmsRecord{
		SID: "SM201", ToPhoneNumber: "+15551234567", MessageBody: "Second outreach",
		SenderUserID: "user-late", RecipientName: "John Doe", SenderName: "Deacon Amy",
		Status: domain.MessageStatusSent,
	}))

	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, "user-late").
		Return(&identityDomain.User{ID: "user-late", DisplayName: "Deacon Amy", Email: "amy@example.org"}, nil)

	sender := new(MockEmailSender)
	sender.On("Send", mock.Anything, []string{"amy@example.org"}, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8")).
		Return(nil)

	router := newTestRouter(ledger, users, sender)
	err := router.RouteInbound(ctx, domain.InboundMessageEvent{From: "(555) 123-4567", Body: "count me in"})

	require.NoError(t, err)
	users.AssertNotCalled(t, "GetByID", mock.Anything, "user-early")
	sender.AssertNumberOfCalls(t, "Send", 1)

	raw := string(sender.Calls[0].Arguments.Get(3).([]byte))
	assert.Contains(t, raw, "count me in")
	assert.Contains(t, raw, "Second outreach")
	assert.Contains(t, raw, "+15551234567")
}

func TestReplyRouter_NoHistoryIsNotAnError(t *testing.T) {
	users := new(MockUserRepository)
	sender := new(MockEmailSender)
	router := newTestRouter(newFakeLedger(), users, sender)

	err := router.RouteInbound(context.Background(), domain.InboundMessageEvent{
		From: "+15550000000", Body: "who is this?",
	})

	assert.NoError(t, err)
	users.AssertNotCalled(t, "GetByID")
	sender.AssertNotCalled(t, "Send")
}

func TestReplyRouter_MissingFieldsDropped(t *testing.T) {
	sender := new(MockEmailSender)
	router := newTestRouter(newFakeLedger(), new(MockUserRepository), sender)

	assert.NoError(t, router.RouteInbound(context.Background(), domain.InboundMessageEvent{Body: "no from"}))
	assert.NoError(t, router.RouteInbound(context.Background(), domain.InboundMessageEvent{From: "+15551234567"}))
	sender.AssertNotCalled(t, "Send")
}

func TestReplyRouter_UnknownUserIsNotAnError(t *testing.T) {
	ledger := newFakeLedger()
	ctx := context.Background()
	require.NoError(t, ledger.Insert(ctx, &domain.SmsRecord{
		SID: "SM202", ToPhoneNumber: "+15551234567", MessageBody: "hello",
		SenderUserID: "user-gone", Status: domain.MessageStatusSent,
	}))

	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, "user-gone").Return(nil, identityDomain.ErrUserNotFound)

	sender := new(MockEmailSender)
	router := newTestRouter(ledger, users, sender)

	assert.NoError(t, router.RouteInbound(ctx, domain.InboundMessageEvent{From: "+15551234567", Body: "re: hello"}))
	sender.AssertNotCalled(t, "Send")
}

func TestReplyRouter_UserWithoutEmailIsNotAnError(t *testing.T) {
	ledger := newFakeLedger()
	ctx := context.Background()
	require.NoError(t, ledger.Insert(ctx, &domain.SmsRecord{
		SID: "SM203", ToPhoneNumber: "+15551234567", MessageBody: "hello",
		SenderUserID: "user-no-email", Status: domain.MessageStatusSent,
	}))

	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, "user-no-email").
		Return(&identityDomain.User{ID: "user-no-email", DisplayName: "No Email"}, nil)

	sender := new(MockEmailSender)
	router := newTestRouter(ledger, users, sender)

	assert.NoError(t, router.RouteInbound(ctx, domain.InboundMessageEvent{From: "+15551234567", Body: "re: hello"}))
	sender.AssertNotCalled(t, "Send")
}
