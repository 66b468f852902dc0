package vlm

import (
	"context"
	"testing"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	calls     int
	responses []func(call int) (domain.ChatResponse, error)
}

func (p *scriptedProvider) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	i := p.calls
	p.calls++
	if i >= len(p.responses) {
		return p.responses[len(p.responses)-1](i)
	}
	return p.responses[i](i)
}

func (p *scriptedProvider) Name() string { return "scripted" }

func baseTestConfig(provider domain.Provider) *domain.ConversionConfig {
	c := domain.NewConfig(
		domain.WithProvider(provider),
		domain.WithMaxRetries(3),
		domain.WithRetryBackoffMs(1),
		domain.WithAPITimeoutSecs(5),
	)
	return &c
}

func TestDispatch_SucceedsFirstTry(t *testing.T) {
	p := &scriptedProvider{responses: []func(int) (domain.ChatResponse, error){
		func(int) (domain.ChatResponse, error) { return domain.ChatResponse{Content: "# Page"}, nil },
	}}
	cfg := baseTestConfig(p)
	result := Dispatch(context.Background(), cfg, 1, domain.ImageAttachment{}, "", nil, nil)
	require.Nil(t, result.Err)
	assert.Equal(t, "# Page", result.Markdown)
	assert.Equal(t, 0, result.Retries)
}

func TestDispatch_RetriesTransientThenSucceeds(t *testing.T) {
	p := &scriptedProvider{responses: []func(int) (domain.ChatResponse, error){
		func(int) (domain.ChatResponse, error) {
			return domain.ChatResponse{}, &domain.ProviderError{StatusCode: 503, Message: "unavailable"}
		},
		func(int) (domain.ChatResponse, error) { return domain.ChatResponse{Content: "ok"}, nil },
	}}
	cfg := baseTestConfig(p)
	result := Dispatch(context.Background(), cfg, 2, domain.ImageAttachment{}, "", nil, nil)
	require.Nil(t, result.Err)
	assert.Equal(t, "ok", result.Markdown)
	assert.Equal(t, 1, result.Retries)
}

func TestDispatch_AuthErrorFailsImmediately(t *testing.T) {
	p := &scriptedProvider{responses: []func(int) (domain.ChatResponse, error){
		func(int) (domain.ChatResponse, error) {
			return domain.ChatResponse{}, &domain.ProviderError{StatusCode: 401, Message: "bad key"}
		},
	}}
	cfg := baseTestConfig(p)
	result := Dispatch(context.Background(), cfg, 3, domain.ImageAttachment{}, "", nil, nil)
	require.NotNil(t, result.Err)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, domain.PageErrLlmFailed, result.Err.Kind)
}

func TestDispatch_RateLimitExhaustsRetries(t *testing.T) {
	p := &scriptedProvider{responses: []func(int) (domain.ChatResponse, error){
		func(int) (domain.ChatResponse, error) {
			return domain.ChatResponse{}, &domain.ProviderError{StatusCode: 429, RateLimited: true, RetryAfterSecs: 0, Message: "rate limited"}
		},
	}}
	cfg := baseTestConfig(p)
	result := Dispatch(context.Background(), cfg, 4, domain.ImageAttachment{}, "", nil, nil)
	require.NotNil(t, result.Err)
	assert.Equal(t, domain.PageErrRateLimitExceeded, result.Err.Kind)
	assert.Equal(t, cfg.MaxRetries+1, p.calls)
}

func TestDispatch_ContextOverflowDowngradesOnce(t *testing.T) {
	p := &scriptedProvider{responses: []func(int) (domain.ChatResponse, error){
		func(int) (domain.ChatResponse, error) {
			return domain.ChatResponse{}, &domain.ProviderError{StatusCode: 400, ContextOverflow: true, Message: "context_length_exceeded"}
		},
		func(int) (domain.ChatResponse, error) { return domain.ChatResponse{Content: "downsized ok"}, nil },
	}}
	cfg := baseTestConfig(p)
	renderCalls := 0
	render := func(ctx context.Context, reducedMaxPixels int) (domain.ImageAttachment, error) {
		renderCalls++
		assert.Less(t, reducedMaxPixels, cfg.MaxRenderedPixels)
		return domain.ImageAttachment{Base64Payload: "smaller"}, nil
	}
	result := Dispatch(context.Background(), cfg, 5, domain.ImageAttachment{Base64Payload: "original"}, "", nil, render)
	require.Nil(t, result.Err)
	assert.Equal(t, "downsized ok", result.Markdown)
	assert.Equal(t, 1, renderCalls)
}

func TestDispatch_NonRetryableFailsImmediately(t *testing.T) {
	p := &scriptedProvider{responses: []func(int) (domain.ChatResponse, error){
		func(int) (domain.ChatResponse, error) {
			return domain.ChatResponse{}, &domain.ProviderError{StatusCode: 400, Message: "bad request"}
		},
	}}
	cfg := baseTestConfig(p)
	result := Dispatch(context.Background(), cfg, 6, domain.ImageAttachment{}, "", nil, nil)
	require.NotNil(t, result.Err)
	assert.Equal(t, 1, p.calls)
}
