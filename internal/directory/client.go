package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Person is a flattened contact-directory entry: the subset of a Breeze
// ChMS person record the messaging UI needs.
type Person struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Tag is a Breeze contact tag (group label).
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client fetches and flattens people and tags from the Breeze ChMS API.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a directory client. baseURL is the full API root,
// e.g. "https://<subdomain>.breezechms.com/api".
func NewClient(logger *slog.Logger, baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		logger:     logger.With("client", "breeze"),
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create Breeze request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("breeze request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Breeze response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("breeze API error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode Breeze response: %w", err)
	}
	return nil
}

// breezePerson mirrors the raw Breeze person payload. Phone numbers sit
// inside the free-form details object, keyed by profile field id.
type breezePerson struct {
	ID        string                     `json:"id"`
	FirstName string                     `json:"first_name"`
	LastName  string                     `json:"last_name"`
	Details   map[string]json.RawMessage `json:"details"`
}

type breezePhoneEntry struct {
	PhoneNumber string `json:"phone_number"`
	PhoneType   string `json:"phone_type"`
}

// GetPeople returns the flattened contact list.
func (c *Client) GetPeople(ctx context.Context) ([]Person, error) {
	var raw []breezePerson
	if err := c.get(ctx, "/people?details=1", &raw); err != nil {
		return nil, err
	}

	people := make([]Person, 0, len(raw))
	for _, p := range raw {
		people = append(people, Person{
			ID:          p.ID,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			PhoneNumber: extractPhone(p.Details),
		})
	}
	c.logger.DebugContext(ctx, "Fetched people from Breeze", "count", len(people))
	return people, nil
}

// GetTags returns the directory's contact tags.
func (c *Client) GetTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.get(ctx, "/tags/list_tags", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// extractPhone scans the details object for phone entries, preferring a
// mobile number over the first one found.
func extractPhone(details map[string]json.RawMessage) string {
	var first string
	for _, rawValue := range details {
		var entries []breezePhoneEntry
		if err := json.Unmarshal(rawValue, &entries); err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.PhoneNumber == "" {
				continue
			}
			if strings.EqualFold(entry.PhoneType, "mobile") {
				return entry.PhoneNumber
			}
			if first == "" {
				first = entry.PhoneNumber
			}
		}
	}
	return first
}
