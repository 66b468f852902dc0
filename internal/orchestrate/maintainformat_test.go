package orchestrate

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maintainProvider records, for every call, the cleaned assistant
// markdown it was handed as prior-page context (empty on the first
// page), then returns deterministic per-call content.
type maintainProvider struct {
	mu        sync.Mutex
	calls     int
	priorSeen []string
}

func (p *maintainProvider) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	n := p.calls

	prior := ""
	for _, m := range req.Messages {
		if m.Role == domain.RoleAssistant && len(m.Content) > 0 {
			prior = m.Content[0].Text
		}
	}
	p.priorSeen = append(p.priorSeen, prior)
	return domain.ChatResponse{Content: fmt.Sprintf("clean-%d", n)}, nil
}

func (p *maintainProvider) Name() string { return "maintain" }

func TestRunSequential_StrictOrderingAndPriorMarkdownContinuity(t *testing.T) {
	renderer := &fakeRenderer{}
	provider := &maintainProvider{}
	cfg := domain.NewConfig(
		domain.WithProvider(provider),
		domain.WithMaintainFormat(true),
		domain.WithMaxRetries(0),
	)
	require.Equal(t, 1, cfg.Concurrency, "maintain_format must clamp concurrency to 1")

	s := &session{cfg: &cfg, handle: renderer, meta: domain.DocumentMetadata{PageCount: 3}, pages: []int{1, 2, 3}, source: "doc.pdf"}

	var order []int
	runPages(context.Background(), s, func(r domain.PageResult) {
		order = append(order, r.PageNum)
	})

	assert.Equal(t, []int{1, 2, 3}, order, "callbacks must fire in strict page order")
	assert.Equal(t, 3, provider.calls)

	require.Len(t, provider.priorSeen, 3)
	assert.Equal(t, "", provider.priorSeen[0], "page 1 has no prior page")
	assert.Equal(t, "clean-1\n", provider.priorSeen[1], "page 2 must see page 1's cleaned markdown")
	assert.Equal(t, "clean-2\n", provider.priorSeen[2], "page 3 must see page 2's cleaned markdown")
}
