package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("NewGateway", func(t *testing.T) {
		t.Run("creates gateway with default URL", func(t *testing.T) {
			if g := NewGateway("", "", nil); g == nil {
				t.Fatal("expected gateway to be created")
			} else if g.baseURL != defaultBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultBaseURL, g.baseURL)
			}
		})

		t.Run("creates gateway with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000"
			if g := NewGateway(customURL, "", nil); g.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, g.baseURL)
			}
		})
	})

	t.Run("Analyze", func(t *testing.T) {
		t.Run("passes request fields and API key", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/analyze" {
					t.Errorf("expected path /v1/analyze, got %s", r.URL.Path)
				}
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if got := r.Header.Get("X-API-Key"); got != "secret" {
					t.Errorf("expected API key header, got %q", got)
				}

				var req struct {
					MimeType string `json:"mime_type"`
					Data     string `json:"data"`
					Context  string `json:"context"`
				}
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if req.MimeType != "image/jpeg" || req.Context != "handstand practice" {
					t.Errorf("unexpected request: %+v", req)
				}
				if req.Data == "" {
					t.Error("expected base64 media payload")
				}

				json.NewEncoder(w).Encode(Result{
					Score: 82, Emotion: "Determined",
					Feedback: "Strong line, tighten the core.",
					Tags:     []string{"Handstand", "Balance"},
				})
			}))
			defer server.Close()

			g := NewGateway(server.URL, "secret", nil, WithRateLimit(1000))
			res := g.Analyze(ctx, "image/jpeg", []byte{0xFF, 0xD8}, "handstand practice")
			if res.Score != 82 || res.Emotion != "Determined" {
				t.Errorf("unexpected result: %+v", res)
			}
		})

		t.Run("fills defaults for missing fields", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			g := NewGateway(server.URL, "", nil, WithRateLimit(1000))
			res := g.Analyze(ctx, "image/png", nil, "")
			if res.Score != 75 {
				t.Errorf("expected default score 75, got %d", res.Score)
			}
			if res.Emotion != "Focused" {
				t.Errorf("expected default emotion, got %q", res.Emotion)
			}
			if res.Feedback != "Good effort, keep maintaining consistency." {
				t.Errorf("expected default feedback, got %q", res.Feedback)
			}
			if len(res.Tags) != 1 || res.Tags[0] != "Progress" {
				t.Errorf("expected default tags, got %v", res.Tags)
			}
		})

		t.Run("clamps out of range scores", func(t *testing.T) {
			for _, tc := range []struct {
				raw  int
				want int
			}{
				{raw: 150, want: 100},
				{raw: -10, want: 0},
			} {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					json.NewEncoder(w).Encode(map[string]any{"score": tc.raw, "emotion": "x", "feedback": "y", "tags": []string{"z"}})
				}))
				g := NewGateway(server.URL, "", nil, WithRateLimit(1000))
				if res := g.Analyze(ctx, "image/png", nil, ""); res.Score != tc.want {
					t.Errorf("score %d: expected clamp to %d, got %d", tc.raw, tc.want, res.Score)
				}
				server.Close()
			}
		})

		t.Run("falls back on server error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"detail":"model overloaded"}`, http.StatusServiceUnavailable)
			}))
			defer server.Close()

			g := NewGateway(server.URL, "", nil, WithRateLimit(1000))
			res := g.Analyze(ctx, "video/mp4", []byte("clip"), "daily check-in")
			if res.Score != fallbackScore || res.Emotion != fallbackEmotion {
				t.Errorf("expected fallback result, got %+v", res)
			}
			if res.Feedback != fallbackFeedback {
				t.Errorf("expected fallback feedback, got %q", res.Feedback)
			}
			if len(res.Tags) != 1 || res.Tags[0] != "Consistency" {
				t.Errorf("expected fallback tags, got %v", res.Tags)
			}
		})

		t.Run("falls back when service is unreachable", func(t *testing.T) {
			g := NewGateway("http://127.0.0.1:1", "", nil, WithRateLimit(1000))
			res := g.Analyze(ctx, "image/png", nil, "")
			if res.Score != fallbackScore {
				t.Errorf("expected fallback score, got %d", res.Score)
			}
		})
	})

	t.Run("Chat", func(t *testing.T) {
		t.Run("sends history and returns reply", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/chat" {
					t.Errorf("expected path /v1/chat, got %s", r.URL.Path)
				}

				var req struct {
					SystemInstruction string `json:"system_instruction"`
					History           []Turn `json:"history"`
					Message           string `json:"message"`
				}
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if req.SystemInstruction == "" {
					t.Error("expected system instruction to be sent")
				}
				if len(req.History) != 2 || req.History[1].Role != "model" {
					t.Errorf("unexpected history: %+v", req.History)
				}
				if req.Message != "How do I improve?" {
					t.Errorf("unexpected message: %q", req.Message)
				}

				json.NewEncoder(w).Encode(map[string]string{"reply": "Focus on your shoulder alignment."})
			}))
			defer server.Close()

			g := NewGateway(server.URL, "", nil, WithRateLimit(1000))
			history := []Turn{
				{Role: "user", Text: "Hi"},
				{Role: "model", Text: "Hello, ready to train?"},
			}
			reply := g.Chat(ctx, history, "How do I improve?")
			if reply != "Focus on your shoulder alignment." {
				t.Errorf("unexpected reply: %q", reply)
			}
		})

		t.Run("falls back on error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer server.Close()

			g := NewGateway(server.URL, "", nil, WithRateLimit(1000))
			if reply := g.Chat(ctx, nil, "hello"); reply != chatFallback {
				t.Errorf("expected fallback reply, got %q", reply)
			}
		})

		t.Run("falls back on empty reply", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			g := NewGateway(server.URL, "", nil, WithRateLimit(1000))
			if reply := g.Chat(ctx, nil, "hello"); reply != chatFallback {
				t.Errorf("expected fallback reply, got %q", reply)
			}
		})
	})
}
