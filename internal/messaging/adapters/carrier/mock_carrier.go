package carrier

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// MockAdapter is a simulated carrier for development when no Twilio
// credentials are configured. Every send succeeds with a generated SID.
type MockAdapter struct {
	logger *slog.Logger
}

func NewMockAdapter(logger *slog.Logger) *MockAdapter {
	return &MockAdapter{logger: logger.With("carrier", "mock")}
}

func (a *MockAdapter) Name() string { return "mock" }

func (a *MockAdapter) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	sid := "MOCK" + uuid.NewString()
	a.logger.InfoContext(ctx, "MockAdapter: message sent (simulated)",
		"sid", sid, "to", req.To, "body_len", len(req.Body))
	return &SendResult{SID: sid, Status: "queued"}, nil
}
