package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TwilioAdapter sends SMS through the Twilio Messages REST API.
type TwilioAdapter struct {
	logger            *slog.Logger
	httpClient        *http.Client
	apiBaseURL        string
	accountSID        string
	authToken         string
	fromNumber        string
	statusCallbackURL string
}

// NewTwilioAdapter creates a Twilio adapter. statusCallbackURL is attached
// to every outbound message so Twilio posts delivery-status webhooks back
// to the gateway.
func NewTwilioAdapter(logger *slog.Logger, apiBaseURL, accountSID, authToken, fromNumber, statusCallbackURL string, httpClient *http.Client) *TwilioAdapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TwilioAdapter{
		logger:            logger.With("carrier", "twilio"),
		httpClient:        httpClient,
		apiBaseURL:        strings.TrimRight(apiBaseURL, "/"),
		accountSID:        accountSID,
		authToken:         authToken,
		fromNumber:        fromNumber,
		statusCallbackURL: statusCallbackURL,
	}
}

func (a *TwilioAdapter) Name() string { return "twilio" }

// twilioMessageResponse is the subset of Twilio's message resource the
// gateway cares about.
type twilioMessageResponse struct {
	SID          string  `json:"sid"`
	Status       string  `json:"status"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

type twilioErrorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func (a *TwilioAdapter) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", a.apiBaseURL, a.accountSID)

	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", a.fromNumber)
	form.Set("Body", req.Body)
	if a.statusCallbackURL != "" {
		form.Set("StatusCallback", a.statusCallbackURL)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Twilio HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(a.accountSID, a.authToken)

	a.logger.DebugContext(ctx, "Sending message via Twilio", "to", req.To, "status_callback", a.statusCallbackURL)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Twilio response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var apiErr twilioErrorResponse
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr != nil || apiErr.Message == "" {
			return nil, &Error{
				Code:    strconv.Itoa(httpResp.StatusCode),
				Message: fmt.Sprintf("twilio returned HTTP %d: %s", httpResp.StatusCode, string(respBody)),
			}
		}
		message := apiErr.Message
		if apiErr.MoreInfo != "" {
			message = message + " | More Info: " + apiErr.MoreInfo
		}
		return nil, &Error{Code: strconv.Itoa(apiErr.Code), Message: message}
	}

	var msg twilioMessageResponse
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode Twilio response: %w", err)
	}
	if msg.SID == "" {
		return nil, &Error{Message: "twilio response missing message sid"}
	}

	a.logger.InfoContext(ctx, "Message accepted by Twilio", "sid", msg.SID, "status", msg.Status, "to", req.To)

	return &SendResult{SID: msg.SID, Status: msg.Status}, nil
}
