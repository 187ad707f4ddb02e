package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestSearch(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL)
}

func TestSearchAbstract(t *testing.T) {
	var gotQuery string
	client := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("Expected format=json, got %q", r.URL.Query().Get("format"))
		}
		w.Write([]byte(`{"AbstractText": "The transistor was invented in 1947."}`))
	})

	out, err := client.Search(context.Background(), "who invented the transistor")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if out != "The transistor was invented in 1947." {
		t.Errorf("Unexpected summary: %q", out)
	}
	if gotQuery != "who invented the transistor" {
		t.Errorf("Expected query passed through, got %q", gotQuery)
	}
}

func TestSearchFallbackOrder(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "direct answer when no abstract",
			body:     `{"AbstractText": "", "Answer": "42"}`,
			expected: "42",
		},
		{
			name:     "definition when no answer",
			body:     `{"Definition": "A semiconductor device."}`,
			expected: "A semiconductor device.",
		},
		{
			name:     "related topics last",
			body:     `{"RelatedTopics": [{"Text": "First"}, {"Text": "Second"}, {"Text": ""}, {"Text": "Third"}, {"Text": "Fourth"}]}`,
			expected: "First\nSecond\nThird",
		},
		{
			name:     "nothing relevant",
			body:     `{}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			out, err := client.Search(context.Background(), "q")
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if out != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestSearchServerError(t *testing.T) {
	client := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("Expected error for server failure")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("Expected status in error, got: %v", err)
	}
}

func TestSearchMalformedResponse(t *testing.T) {
	client := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatal("Expected error for malformed response")
	}
}
