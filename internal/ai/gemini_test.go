package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wellbeam-hq/apiserver/config"
)

func geminiTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGeminiClient(config.AIConfig{
		APIKey:   "test-key",
		Endpoint: server.URL,
		Timeout:  2 * time.Second,
	})
}

func TestGeminiGenerate(t *testing.T) {
	t.Parallel()

	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected request payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{
				{Content: geminiContent{Parts: []geminiPart{{Text: "generated"}}}},
			},
		})
	})

	text, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if text != "generated" {
		t.Fatalf("text = %q, want %q", text, "generated")
	}
}

func TestGeminiGenerateMissingKey(t *testing.T) {
	t.Parallel()

	client := NewGeminiClient(config.AIConfig{Endpoint: "http://localhost:0", Timeout: time.Second})
	_, err := client.Generate(context.Background(), "hello")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGeminiGenerateNon2xx(t *testing.T) {
	t.Parallel()

	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	t.Parallel()

	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), "hello")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGeminiGenerateBlankParts(t *testing.T) {
	t.Parallel()

	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`))
	})

	_, err := client.Generate(context.Background(), "hello")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}
