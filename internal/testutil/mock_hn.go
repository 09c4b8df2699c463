// Package testutil provides testing utilities for the Hacker News client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockHN is a configurable mock of the Hacker News Firebase API.
type MockHN struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse

	// Tracking
	RequestCount  int
	ItemRequests  map[int]int
	LastUserAgent string
	inFlight      int
	MaxInFlight   int
}

// NewMockHN creates a new mock API server. Unknown items answer "null" like
// the real API does.
func NewMockHN() *MockHN {
	mock := &MockHN{
		responses:    make(map[string]MockResponse),
		ItemRequests: make(map[int]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastUserAgent = r.Header.Get("User-Agent")
		if id, ok := itemID(r.URL.Path); ok {
			mock.ItemRequests[id]++
		}
		mock.inFlight++
		if mock.inFlight > mock.MaxInFlight {
			mock.MaxInFlight = mock.inFlight
		}
		resp, exists := mock.responses[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.inFlight--
			mock.mu.Unlock()
		}()

		if !exists {
			resp = MockResponse{StatusCode: http.StatusOK, Body: "null"}
		}

		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL, usable as the client base URL.
func (m *MockHN) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockHN) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockHN) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ItemRequests = make(map[int]int)
	m.LastUserAgent = ""
	m.MaxInFlight = 0
}

// SetResponse configures the response for a path.
func (m *MockHN) SetResponse(path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = resp
}

// SetTopStories configures the listing endpoint to return ids.
func (m *MockHN) SetTopStories(ids ...int) {
	body, _ := json.Marshal(ids)
	m.SetResponse("/topstories.json", MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
	})
}

// SetItem configures the item endpoint for id with a raw JSON body.
func (m *MockHN) SetItem(id int, body string) {
	m.SetResponse(ItemPath(id), MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	})
}

// SetStory configures a complete story payload for id.
func (m *MockHN) SetStory(id int, title string) {
	m.SetItem(id, StoryJSON(id, title))
}

// SetItemDelay configures a delayed story payload for id.
func (m *MockHN) SetItemDelay(id int, title string, delay time.Duration) {
	m.SetResponse(ItemPath(id), MockResponse{
		StatusCode: http.StatusOK,
		Body:       StoryJSON(id, title),
		Delay:      delay,
	})
}

// SetItemStatus configures a non-2xx answer for id.
func (m *MockHN) SetItemStatus(id int, statusCode int) {
	m.SetResponse(ItemPath(id), MockResponse{
		StatusCode: statusCode,
		Body:       `{"error": "mock failure"}`,
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockHN) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetItemRequests returns how often the item endpoint for id was hit.
func (m *MockHN) GetItemRequests(id int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ItemRequests[id]
}

// GetMaxInFlight returns the highest number of concurrent requests observed.
func (m *MockHN) GetMaxInFlight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.MaxInFlight
}

// GetLastUserAgent returns the User-Agent of the most recent request.
func (m *MockHN) GetLastUserAgent() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastUserAgent
}

// ItemPath returns the item endpoint path for id.
func ItemPath(id int) string {
	return fmt.Sprintf("/item/%d.json", id)
}

// StoryJSON returns a complete story payload.
func StoryJSON(id int, title string) string {
	return fmt.Sprintf(`{"id":%d,"type":"story","title":%q,"url":"https://example.com/%d","score":%d,"by":"user%d","descendants":%d,"time":1700000000}`,
		id, title, id, id*10, id, id*2)
}

// CommentJSON returns a comment payload, which the loader must drop.
func CommentJSON(id int) string {
	return fmt.Sprintf(`{"id":%d,"type":"comment","by":"user%d","text":"hello","time":1700000000}`, id, id)
}

func itemID(path string) (int, bool) {
	if !strings.HasPrefix(path, "/item/") || !strings.HasSuffix(path, ".json") {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(path, "/item/"), ".json"))
	if err != nil {
		return 0, false
	}
	return id, true
}
