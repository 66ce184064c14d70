// Package analysis talks to the coaching service that scores uploaded
// progress media and answers mentor chat. The caller never sees a
// transport error; failures degrade to canned responses so an upload
// always completes.
package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://localhost:8790"

const systemInstruction = `You are "Progress Vision", a futuristic, highly intelligent AI personal growth coach.
Your tone is encouraging, concise, professional, and slightly futuristic.
You motivate users, analyze their emotional state, and provide actionable advice.
When analyzing progress, be specific about improvements in posture, confidence, or output.
Always keep responses under 100 words unless asked for a detailed plan.`

// Fallback values used when the service is unreachable or returns
// garbage.
const (
	fallbackScore    = 70
	fallbackEmotion  = "Neutral"
	fallbackFeedback = "Analysis failed, but great job showing up!"
	chatFallback     = "I am currently recalibrating my neural networks. Please try again."
)

// Result is the structured feedback for one piece of media.
type Result struct {
	Score    int      `json:"score"` // 0-100
	Emotion  string   `json:"emotion"`
	Feedback string   `json:"feedback"`
	Tags     []string `json:"tags"`
}

// Turn is one prior message of the mentor conversation.
type Turn struct {
	Role string `json:"role"` // user or model
	Text string `json:"text"`
}

// Gateway is the HTTP client for the coaching service.
type Gateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient overrides the underlying client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(g *Gateway) { g.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewGateway creates a gateway for the given service. An empty baseURL
// falls back to the local default.
func NewGateway(baseURL, apiKey string, logger *log.Logger, opts ...Option) *Gateway {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = log.Default()
	}
	g := &Gateway{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) doRequest(ctx context.Context, endpoint string, body, result any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if g.apiKey != "" {
		req.Header.Set("X-API-Key", g.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("analysis service error (status %d): %s", resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("analysis service error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Analyze scores a piece of media against the user's stated context.
// Missing fields in the response get encouraging defaults; any failure
// returns the canned fallback instead of an error.
func (g *Gateway) Analyze(ctx context.Context, mimeType string, media []byte, userContext string) Result {
	reqBody := struct {
		MimeType string `json:"mime_type"`
		Data     string `json:"data"`
		Context  string `json:"context"`
	}{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(media),
		Context:  userContext,
	}

	var res Result
	if err := g.doRequest(ctx, "/v1/analyze", reqBody, &res); err != nil {
		g.logger.Warn("analysis failed, using fallback", "err", err)
		return Result{
			Score:    fallbackScore,
			Emotion:  fallbackEmotion,
			Feedback: fallbackFeedback,
			Tags:     []string{"Consistency"},
		}
	}

	if res.Score == 0 {
		res.Score = 75
	}
	if res.Score < 0 {
		res.Score = 0
	}
	if res.Score > 100 {
		res.Score = 100
	}
	if res.Emotion == "" {
		res.Emotion = "Focused"
	}
	if res.Feedback == "" {
		res.Feedback = "Good effort, keep maintaining consistency."
	}
	if len(res.Tags) == 0 {
		res.Tags = []string{"Progress"}
	}
	return res
}

// Chat sends the next mentor message along with prior history and
// returns the reply text. Failures return the canned recalibration
// line.
func (g *Gateway) Chat(ctx context.Context, history []Turn, message string) string {
	reqBody := struct {
		SystemInstruction string `json:"system_instruction"`
		History           []Turn `json:"history"`
		Message           string `json:"message"`
	}{
		SystemInstruction: systemInstruction,
		History:           history,
		Message:           message,
	}

	var res struct {
		Reply string `json:"reply"`
	}
	if err := g.doRequest(ctx, "/v1/chat", reqBody, &res); err != nil {
		g.logger.Warn("chat failed, using fallback", "err", err)
		return chatFallback
	}
	if res.Reply == "" {
		return chatFallback
	}
	return res.Reply
}
