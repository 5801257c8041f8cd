package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
)

func TestReconciler_AppliesStatus(t *testing.T) {
	ledger := newFakeLedger()
	require.NoError(t, ledger.Insert(context.Background(), &domain.SmsRecord{
		SID:           "SM100",
		ToPhoneNumber: "+15551234567",
		MessageBody:   "hello",
		SenderUserID:  "user-1",
		Status:        domain.MessageStatusQueued,
	}))

	reconciler := NewStatusReconciler(ledger, testLogger())
	err := reconciler.ProcessStatusCallback(context.Background(), domain.StatusCallbackEvent{
		MessageSID:    "SM100",
		MessageStatus: "delivered",
	})

	require.NoError(t, err)
	rec := ledger.get("SM100")
	require.NotNil(t, rec)
	assert.Equal(t, domain.MessageStatusDelivered, rec.Status)
	assert.True(t, rec.UpdatedAt.After(rec.CreatedAt))
}

func TestReconciler_IdempotentReplay(t *testing.T) {
	ledger := newFakeLedger()
	require.NoError(t, ledger.Insert(context.Background(), &domain.SmsRecord{
		SID:           "SM101",
		ToPhoneNumber: "+15551234567",
		MessageBody:   "hello",
		SenderUserID:  "user-1",
		Status:        domain.MessageStatusSent,
	}))

	reconciler := NewStatusReconciler(ledger, testLogger())
	ev := domain.StatusCallbackEvent{MessageSID: "SM101", MessageStatus: "delivered"}

	require.NoError(t, reconciler.ProcessStatusCallback(context.Background(), ev))
	require.NoError(t, reconciler.ProcessStatusCallback(context.Background(), ev))

	assert.Equal(t, domain.MessageStatusDelivered, ledger.get("SM101").Status)
	assert.Equal(t, 1, ledger.count(), "replay must not create a second row")
}

func TestReconciler_UnknownSIDIsNotAnError(t *testing.T) {
	ledger := newFakeLedger()
	reconciler := NewStatusReconciler(ledger, testLogger())

	err := reconciler.ProcessStatusCallback(context.Background(), domain.StatusCallbackEvent{
		MessageSID:    "SM999",
		MessageStatus: "delivered",
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, ledger.count(), "unknown sid must not create a row")
}

func TestReconciler_CapturesErrorFields(t *testing.T) {
	ledger := newFakeLedger()
	require.NoError(t, ledger.Insert(context.Background(), &domain.SmsRecord{
		SID:           "SM102",
		ToPhoneNumber: "+15551234567",
		MessageBody:   "hello",
		SenderUserID:  "user-1",
		Status:        domain.MessageStatusSent,
	}))

	reconciler := NewStatusReconciler(ledger, testLogger())
	err := reconciler.ProcessStatusCallback(context.Background(), domain.StatusCallbackEvent{
		MessageSID:    "SM102",
		MessageStatus: "undelivered",
		ErrorCode:     "30006",
		ErrorMessage:  "Landline or unreachable carrier",
	})

	require.NoError(t, err)
	rec := ledger.get("SM102")
	assert.Equal(t, domain.MessageStatusUndelivered, rec.Status)
	require.NotNil(t, rec.ErrorCode)
	assert.Equal(t, "30006", *rec.ErrorCode)
	require.NotNil(t, rec.ErrorMessage)
	assert.Equal(t, "Landline or unreachable carrier", *rec.ErrorMessage)
}
