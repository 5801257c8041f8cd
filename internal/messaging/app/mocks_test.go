package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	identityDomain "github.com/harvestChurchAdmin/church-messaging-app/internal/identity/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/adapters/carrier"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
)

// --- Mocks ---

type MockSmsRecordRepository struct {
	mock.Mock
}

func (m *MockSmsRecordRepository) Insert(ctx context.Context, rec *domain.SmsRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockSmsRecordRepository) UpdateStatus(ctx context.Context, sid string, status domain.MessageStatus, errorCode, errorMessage *string) error {
	args := m.Called(ctx, sid, status, errorCode, errorMessage)
	return args.Error(0)
}

func (m *MockSmsRecordRepository) MostRecentSentTo(ctx context.Context, toPhoneNumber string) (*domain.SmsRecord, error) {
	args := m.Called(ctx, toPhoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SmsRecord), args.Error(1)
}

func (m *MockSmsRecordRepository) ListAll(ctx context.Context) ([]*domain.SmsRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SmsRecord), args.Error(1)
}

type MockCarrier struct {
	mock.Mock
}

func (m *MockCarrier) Name() string { return "mock" }

func (m *MockCarrier) Send(ctx context.Context, req carrier.SendRequest) (*carrier.SendResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*carrier.SendResult), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*identityDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func (m *MockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*identityDomain.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *identityDomain.User) (*identityDomain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
}

// --- In-memory ledger fake ---

// fakeLedger is an in-memory SmsRecordRepository mirroring the store's
// per-key serialization: one mutex, atomic insert-or-update.
type fakeLedger struct {
	mu   sync.Mutex
	rows map[string]*domain.SmsRecord
	seq  int64 // guarantees distinct created_at ordering within a test
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: map[string]*domain.SmsRecord{}}
}

func (f *fakeLedger) Insert(ctx context.Context, rec *domain.SmsRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	now := time.Unix(0, f.seq*int64(time.Millisecond))
	if existing, ok := f.rows[rec.SID]; ok {
		existing.Status = rec.Status
		existing.ErrorCode = rec.ErrorCode
		existing.ErrorMessage = rec.ErrorMessage
		existing.UpdatedAt = now
		return nil
	}
	clone := *rec
	clone.CreatedAt = now
	clone.UpdatedAt = now
	f.rows[rec.SID] = &clone
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

func (f *fakeLedger) UpdateStatus(ctx context.Context, sid string, status domain.MessageStatus, errorCode, errorMessage *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.rows[sid]
	if !ok {
		return domain.ErrRecordNotFound
	}
	f.seq++
	rec.Status = status
	rec.ErrorCode = errorCode
	rec.ErrorMessage = errorMessage
	rec.UpdatedAt = time.Unix(0, f.seq*int64(time.Millisecond))
	return nil
}

func (f *fakeLedger) MostRecentSentTo(ctx context.Context, toPhoneNumber string) (*domain.SmsRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var newest *domain.SmsRecord
	for _, rec := range f.rows {
		if rec.ToPhoneNumber != toPhoneNumber {
			continue
		}
		if newest == nil || rec.CreatedAt.After(newest.CreatedAt) {
			newest = rec
		}
	}
	if newest == nil {
		return nil, domain.ErrRecordNotFound
	}
	clone := *newest
	return &clone, nil
}

func (f *fakeLedger) ListAll(ctx context.Context) ([]*domain.SmsRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.SmsRecord, 0, len(f.rows))
	for _, rec := range f.rows {
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeLedger) get(sid string) *domain.SmsRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.rows[sid]
	if !ok {
		return nil
	}
	clone := *rec
	return &clone
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}
