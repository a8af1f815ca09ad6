package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/config"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/mock"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/ratelimit"
)

// openGate admits everything immediately so handler tests are not paced.
type openGate struct{}

func (openGate) Consume(int) {}

func testHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(config.Config{DefaultTokens: 50}, openGate{})
}

func postJSON(t *testing.T, h *Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func TestChatCompletionAggregated(t *testing.T) {
	body := `{
		"model": "gpt-4",
		"messages": [{"role":"system","content":"s"},{"role":"user","content":"u"}],
		"max_tokens": 5
	}`
	rr := postJSON(t, testHandler(t), "/v1/chat/completions", body)
	require.Equal(t, 200, rr.Code, rr.Body.String())

	var resp mock.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.ID)
	require.Equal(t, "chat.completion", resp.Object)
	require.NotZero(t, resp.Created)

	require.Len(t, resp.Choices, 1)
	require.Equal(t, "assistant", resp.Choices[0].Message.Role)
	require.Equal(t, "tok0 tok1 tok2 tok3 tok4", resp.Choices[0].Message.Content)
	require.Equal(t, "stop", resp.Choices[0].FinishReason)

	require.Equal(t, 20, resp.Usage.PromptTokens)
	require.Equal(t, 5, resp.Usage.CompletionTokens)
	require.Equal(t, 25, resp.Usage.TotalTokens)
}

func TestChatCompletionDefaultsMaxTokens(t *testing.T) {
	h := NewHandler(config.Config{DefaultTokens: 3}, openGate{})
	body := `{"model":"gpt-4","messages":[{"role":"user","content":"hi"}]}`
	rr := postJSON(t, h, "/v1/chat/completions", body)
	require.Equal(t, 200, rr.Code)

	var resp mock.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Usage.CompletionTokens)
	require.Equal(t, "tok0 tok1 tok2", resp.Choices[0].Message.Content)
}

func TestChatCompletionRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"model": "gpt-4",`},
		{name: "missing model", body: `{"messages":[{"role":"user","content":"hi"}]}`},
		{name: "missing messages", body: `{"model":"gpt-4"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := postJSON(t, testHandler(t), "/v1/chat/completions", tc.body)
			require.Equal(t, 400, rr.Code)

			var er mock.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &er))
			require.Equal(t, "invalid_request", er.Error.Type)
			require.NotEmpty(t, er.Error.Message)
		})
	}
}

func TestChatCompletionStreamSSE(t *testing.T) {
	body := `{"model":"gpt-4","messages":[{"role":"user","content":"hi"}],"max_tokens":4,"stream":true}`
	rr := postJSON(t, testHandler(t), "/v1/chat/completions", body)
	require.Equal(t, 200, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/event-stream")

	result := parseSSE(t, rr.Body.String())
	require.True(t, result.done, "missing [DONE] marker")
	require.Len(t, result.chunks, 4)

	for i, ch := range result.chunks {
		require.Equal(t, "chat.completion.chunk", ch.Object)
		require.NotEmpty(t, ch.ID)
		require.Len(t, ch.Choices, 1)
		require.Equal(t, 0, ch.Choices[0].Index)
		require.Equal(t, "assistant", ch.Choices[0].Delta.Role)
		require.Equal(t, fmt.Sprintf("tok%d ", i), ch.Choices[0].Delta.Content)
		require.Nil(t, ch.Choices[0].FinishReason)
	}

	// All chunks belong to one session.
	for _, ch := range result.chunks {
		require.Equal(t, result.chunks[0].ID, ch.ID)
	}
}

// Two concurrent single-token requests against a live capacity-2 limiter must
// both finish within roughly one refill window.
func TestChatCompletionsShareLimiter(t *testing.T) {
	bucket := ratelimit.NewBucket(2)
	h := NewHandler(config.Config{DefaultTokens: 50}, ratelimit.NewGate(bucket))

	body := `{"model":"gpt-4","messages":[{"role":"user","content":"hi"}],"max_tokens":1}`
	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			rr := postJSON(t, h, "/v1/chat/completions", body)
			results <- rr.Code
		}()
	}

	time.Sleep(20 * time.Millisecond)
	bucket.Refill()

	for i := 0; i < 2; i++ {
		select {
		case code := <-results:
			require.Equal(t, 200, code)
		case <-time.After(2 * time.Second):
			t.Fatal("request did not complete within the refill window")
		}
	}
	require.GreaterOrEqual(t, bucket.Available(), 0)
}

// parseSSE splits an SSE body into decoded chunks and a [DONE] flag.
func parseSSE(t *testing.T, body string) (result struct {
	chunks []mock.StreamChunk
	done   bool
}) {
	t.Helper()

	for _, evt := range strings.Split(strings.TrimSpace(body), "\n\n") {
		evt = strings.TrimSpace(evt)
		if !strings.HasPrefix(evt, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(evt, "data: ")
		if payload == "[DONE]" {
			result.done = true
			continue
		}
		require.False(t, result.done, "no events may follow [DONE]")

		var ch mock.StreamChunk
		require.NoError(t, json.Unmarshal([]byte(payload), &ch), "payload: %s", payload)
		result.chunks = append(result.chunks, ch)
	}
	return result
}
