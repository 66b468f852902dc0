package vlm

import "github.com/spherical/pdfvlm/internal/domain"

const userPromptText = "Transcribe this page to Markdown."

// BuildMessages constructs the three-part message sequence of the
// dispatcher contract: a system prompt, an optional prior-page
// user/assistant pair (maintain_format mode), and the current page's
// user message.
func BuildMessages(cfg *domain.ConversionConfig, current domain.ImageAttachment, prior *priorPage) []domain.Message {
	current.Detail = domain.DetailHigh
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = SystemPrompt(cfg.Fidelity)
	}

	msgs := []domain.Message{
		{Role: domain.RoleSystem, Content: []domain.ContentPart{domain.TextPart(systemPrompt)}},
	}

	if prior != nil {
		priorImg := prior.Image
		priorImg.Detail = domain.DetailHigh
		msgs = append(msgs,
			domain.Message{Role: domain.RoleUser, Content: []domain.ContentPart{
				domain.TextPart(userPromptText), domain.ImagePart(priorImg),
			}},
			domain.Message{Role: domain.RoleAssistant, Content: []domain.ContentPart{
				domain.TextPart(prior.Markdown),
			}},
		)
	}

	msgs = append(msgs, domain.Message{Role: domain.RoleUser, Content: []domain.ContentPart{
		domain.TextPart(userPromptText), domain.ImagePart(current),
	}})
	return msgs
}

// priorPage carries the previous page's image and cleaned markdown for
// maintain_format continuity.
type priorPage struct {
	Image    domain.ImageAttachment
	Markdown string
}
