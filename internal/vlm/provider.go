package vlm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spherical/pdfvlm/internal/domain"
)

const defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

// HTTPProvider is the one concrete domain.Provider shipped in-tree: an
// OpenAI-compatible chat-completions client generalised from a single
// hardwired vendor integration to a configurable base URL + model, so it
// plays the role of "a provider", not "the provider" (per the capability
// design in SPEC_FULL.md §6.4).
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewHTTPProvider builds a provider against an OpenAI-compatible
// endpoint. baseURL defaults to OpenRouter's chat-completions endpoint
// when empty, matching the teacher's own default backend.
func NewHTTPProvider(baseURL, apiKey, model string) *HTTPProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPProvider{BaseURL: baseURL, APIKey: apiKey, Model: model, client: &http.Client{}}
}

func (p *HTTPProvider) Name() string {
	if p.Model != "" {
		return p.Model
	}
	return "http-provider"
}

type wireImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type wireContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *wireImageURL `json:"image_url,omitempty"`
}

type wireMessage struct {
	Role    string            `json:"role"`
	Content []wireContentPart `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type wireChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type wireResponse struct {
	Choices []wireChoice `json:"choices"`
	Usage   wireUsage    `json:"usage"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat implements domain.Provider. It translates the generic message
// shape into the wire request, issues the call, and maps HTTP-level
// signals (status code, Retry-After, a context-window-overflow message)
// into domain.ProviderError so the dispatcher's retry policy never has
// to look at wire details directly.
func (p *HTTPProvider) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	wireReq := wireRequest{
		Model:       p.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		wm := wireMessage{Role: string(m.Role)}
		for _, part := range m.Content {
			if part.Image != nil {
				wm.Content = append(wm.Content, wireContentPart{
					Type: "image_url",
					ImageURL: &wireImageURL{
						URL:    fmt.Sprintf("data:%s;base64,%s", part.Image.MediaType, part.Image.Base64Payload),
						Detail: string(part.Image.Detail),
					},
				})
			} else {
				wm.Content = append(wm.Content, wireContentPart{Type: "text", Text: part.Text})
			}
		}
		wireReq.Messages = append(wireReq.Messages, wm)
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return domain.ChatResponse{}, &domain.ProviderError{Message: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(body))
	if err != nil {
		return domain.ChatResponse{}, &domain.ProviderError{Message: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return domain.ChatResponse{}, &domain.ProviderError{Message: "request timed out", Err: ctx.Err()}
		}
		return domain.ChatResponse{}, &domain.ProviderError{Message: "transport error", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := &domain.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("http %d", resp.StatusCode),
		}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				perr.RetryAfterSecs = secs
			}
		}
		if resp.StatusCode == 429 {
			perr.RateLimited = true
		}
		var wr wireResponse
		if json.Unmarshal(raw, &wr) == nil && wr.Error != nil {
			perr.Message = wr.Error.Message
			if isContextOverflow(wr.Error.Message) {
				perr.ContextOverflow = true
			}
		}
		return domain.ChatResponse{}, perr
	}

	var wr wireResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		return domain.ChatResponse{}, &domain.ProviderError{Message: "decode response", Err: err}
	}
	if len(wr.Choices) == 0 {
		return domain.ChatResponse{}, &domain.ProviderError{Message: "empty response"}
	}
	return domain.ChatResponse{
		Content: wr.Choices[0].Message.Content,
		Usage: domain.TokenUsage{
			InputTokens:  wr.Usage.PromptTokens,
			OutputTokens: wr.Usage.CompletionTokens,
		},
	}, nil
}

// isContextOverflow centralises the provider-reported-error-string
// mapping for context-window overflow in one place, the same way
// internal/raster centralises MuPDF's encrypted/corrupt string mapping
// (see "Open Question decisions" in DESIGN.md).
func isContextOverflow(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "context_length_exceeded") ||
		strings.Contains(m, "maximum context length") ||
		strings.Contains(m, "context window")
}
