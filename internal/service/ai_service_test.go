package service

import (
	"encoding/json"
	"fmt"
	"lingua_edu_backend/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIService(handler http.HandlerFunc) (*AIService, *httptest.Server) {
	srv := httptest.NewServer(handler)
	svc := NewAIService(config.AIConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	return svc, srv
}

func TestChatReturnsAnswer(t *testing.T) {
	var gotReq ChatCompletionRequest

	svc, srv := newTestAIService(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Das Haus bedeutet 房子。"}}]}`)
	})
	defer srv.Close()

	answer, err := svc.Chat("Was bedeutet Haus?", "das Haus（noun，A1）：house", nil)

	require.NoError(t, err)
	assert.Equal(t, "Das Haus bedeutet 房子。", answer)

	// 消息顺序：system（含背景知识）、user
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "das Haus")
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "Was bedeutet Haus?", gotReq.Messages[1].Content)
	assert.Equal(t, "test-model", gotReq.Model)
}

func TestChatInjectsHistory(t *testing.T) {
	var gotReq ChatCompletionRequest

	svc, srv := newTestAIService(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	})
	defer srv.Close()

	history := []AIChatMessage{
		{Role: "user", Content: "Hallo"},
		{Role: "assistant", Content: "Hallo! Wie kann ich helfen?"},
	}

	_, err := svc.Chat("Noch eine Frage", "", history)
	require.NoError(t, err)

	require.Len(t, gotReq.Messages, 4)
	assert.Equal(t, "Hallo", gotReq.Messages[1].Content)
	assert.Equal(t, "assistant", gotReq.Messages[2].Role)
	assert.Equal(t, "Noch eine Frage", gotReq.Messages[3].Content)
}

func TestChatUpstreamError(t *testing.T) {
	svc, srv := newTestAIService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":{"message":"upstream down"}}`)
	})
	defer srv.Close()

	_, err := svc.Chat("Frage", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestChatNoChoices(t *testing.T) {
	svc, srv := newTestAIService(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})
	defer srv.Close()

	_, err := svc.Chat("Frage", "", nil)
	require.Error(t, err)
}

func TestChatStream(t *testing.T) {
	svc, srv := newTestAIService(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Das \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Haus\"}}]}\n\n")
		fmt.Fprint(w, "data: nicht-json, wird ignoriert\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})
	defer srv.Close()

	chunks, errChan := svc.ChatStream("Was bedeutet Haus?", "", nil)

	var full string
	for chunk := range chunks {
		full += chunk
	}
	if err, ok := <-errChan; ok {
		require.NoError(t, err)
	}

	assert.Equal(t, "Das Haus", full)
}

func TestChatStreamUpstreamError(t *testing.T) {
	svc, srv := newTestAIService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "rate limited")
	})
	defer srv.Close()

	chunks, errChan := svc.ChatStream("Frage", "", nil)

	for range chunks {
		t.Fatal("expected no chunks on upstream error")
	}
	err, ok := <-errChan
	require.True(t, ok)
	assert.Contains(t, err.Error(), "429")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens())
	assert.Equal(t, 0, EstimateTokens(""))
	// 不足4字符也至少记1个token
	assert.Equal(t, 1, EstimateTokens("ab"))
	assert.Equal(t, 2, EstimateTokens("12345678"))
	assert.Equal(t, 4, EstimateTokens("12345678", "87654321"))
}
