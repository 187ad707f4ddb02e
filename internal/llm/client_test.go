package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuspilot/campuspilot/internal/retry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", "test-model", nil)
	client.SetBaseURL(server.URL)
	// Keep retries fast in tests.
	client.retryCfg = retry.Config{MaxRetries: 2, BaseDelay: 1, MaxDelay: 1, BackoffMultiple: 1}
	return client
}

func completionJSON(content string) string {
	return `{"choices": [{"message": {"role": "assistant", "content": ` +
		string(mustMarshal(content)) + `}}]}`
}

func mustMarshal(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}

func TestComplete(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatCompletionRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(completionJSON("  Hello there!  ")))
	})

	out, err := client.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "Hello there!" {
		t.Errorf("Expected trimmed reply, got %q", out)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("Expected chat completions path, got %q", gotPath)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("Expected model test-model, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "say hello" {
		t.Errorf("Unexpected messages: %+v", gotReq.Messages)
	}
}

func TestCompleteRetriesServerError(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionJSON("recovered")))
	})

	out, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Expected recovery after retries, got %v", err)
	}
	if out != "recovered" {
		t.Errorf("Expected recovered reply, got %q", out)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestCompleteDoesNotRetryClientError(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("Expected error for unauthorized request")
	}
	if attempts != 1 {
		t.Errorf("Expected no retry on 401, got %d attempts", attempts)
	}
}

func TestCompleteAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
	})

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("Expected error from API error payload")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
	}{
		{&httpStatusError{status: 500}, true},
		{&httpStatusError{status: 503}, true},
		{&httpStatusError{status: 429}, true},
		{&httpStatusError{status: 400}, false},
		{&httpStatusError{status: 401}, false},
		{&transportError{err: context.DeadlineExceeded}, true},
		{context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.retryable {
			t.Errorf("isRetryable(%v) = %v, expected %v", tt.err, got, tt.retryable)
		}
	}
}
