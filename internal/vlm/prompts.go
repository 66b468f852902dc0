package vlm

import "github.com/spherical/pdfvlm/internal/domain"

const basePrompt = `You are transcribing a single page of a document into clean Markdown.
Preserve all text exactly as it appears. Use proper Markdown structure
for headings, lists and emphasis. Format any tabular data as a pipe
table. Ignore repeated page headers, footers and decorative marginalia.
Do not add commentary, preamble or an outer code fence around your
answer — respond with the page's Markdown content only.`

const tier1Suffix = `
This is a text-focused document; do not attempt to reconstruct complex
layout beyond paragraphs, lists and headings.`

const tier2Suffix = `
Pay particular attention to tables: reproduce every row and column
faithfully as a pipe table, including a header separator row.`

const tier3Suffix = `
Pay particular attention to tables, as in a general document. In
addition, render any mathematical notation as LaTeX, using $...$ for
inline math and $$...$$ for display equations.`

// SystemPrompt returns the built-in prompt for a fidelity tier.
func SystemPrompt(fidelity domain.Fidelity) string {
	switch fidelity {
	case domain.Tier1:
		return basePrompt + tier1Suffix
	case domain.Tier3:
		return basePrompt + tier3Suffix
	default:
		return basePrompt + tier2Suffix
	}
}
