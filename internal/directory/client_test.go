package directory

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetPeople_FlattensPhoneDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("details"))
		assert.Equal(t, "secret-key", r.Header.Get("Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": "100",
				"first_name": "John",
				"last_name": "Doe",
				"details": {
					"12345": [
						{"phone_number": "(555) 123-0000", "phone_type": "home"},
						{"phone_number": "(555) 123-4567", "phone_type": "mobile"}
					],
					"67890": "not a phone list"
				}
			},
			{
				"id": "101",
				"first_name": "Jane",
				"last_name": "Smith",
				"details": {
					"12345": [
						{"phone_number": "(555) 987-6543", "phone_type": "home"}
					]
				}
			},
			{
				"id": "102",
				"first_name": "No",
				"last_name": "Phone",
				"details": {}
			}
		]`))
	}))
	defer server.Close()

	client := NewClient(testLogger(), server.URL, "secret-key", nil)
	people, err := client.GetPeople(context.Background())

	require.NoError(t, err)
	require.Len(t, people, 3)

	byID := map[string]Person{}
	for _, p := range people {
		byID[p.ID] = p
	}
	assert.Equal(t, "(555) 123-4567", byID["100"].PhoneNumber, "mobile number wins over home")
	assert.Equal(t, "(555) 987-6543", byID["101"].PhoneNumber, "falls back to the first number found")
	assert.Empty(t, byID["102"].PhoneNumber)
}

func TestGetTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tags/list_tags", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "1", "name": "Youth Group"}, {"id": "2", "name": "Choir"}]`))
	}))
	defer server.Close()

	client := NewClient(testLogger(), server.URL, "secret-key", nil)
	tags, err := client.GetTags(context.Background())

	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Youth Group", tags[0].Name)
}

func TestGetPeople_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors": "invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient(testLogger(), server.URL, "bad-key", nil)
	_, err := client.GetPeople(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestPersonJSONShape(t *testing.T) {
	data, err := json.Marshal(Person{ID: "100", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "phone_number", "empty phone is omitted")
}
