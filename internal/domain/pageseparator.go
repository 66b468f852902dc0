package domain

import (
	"fmt"
	"strings"
)

type separatorKind int

const (
	sepNone separatorKind = iota
	sepHorizontalRule
	sepComment
	sepCustom
)

// PageSeparator is inserted between consecutive page markdowns during
// assembly.
type PageSeparator struct {
	kind   separatorKind
	custom string
}

func SeparatorNone() PageSeparator           { return PageSeparator{kind: sepNone} }
func SeparatorHorizontalRule() PageSeparator { return PageSeparator{kind: sepHorizontalRule} }
func SeparatorComment() PageSeparator        { return PageSeparator{kind: sepComment} }
func SeparatorCustom(s string) PageSeparator { return PageSeparator{kind: sepCustom, custom: s} }

// Join concatenates pages (already cleaned markdown, one per selected
// page, in ascending page_num order) with this separator and ensures
// exactly one trailing newline, matching the literal assembly examples.
// Each page's trailing newlines are trimmed first, so the separator is
// exactly what appears between two pages.
func (s PageSeparator) Join(pages []string, pageNums []int) string {
	if len(pages) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pages {
		b.WriteString(strings.TrimRight(p, "\n"))
		if i == len(pages)-1 {
			continue
		}
		switch s.kind {
		case sepHorizontalRule:
			b.WriteString("\n\n---\n\n")
		case sepComment:
			nextPage := i + 1
			if i+1 < len(pageNums) {
				nextPage = pageNums[i+1]
			}
			b.WriteString(fmt.Sprintf("\n\n<!-- page %d -->\n\n", nextPage))
		case sepCustom:
			b.WriteString(fmt.Sprintf("\n\n%s\n\n", s.custom))
		default:
			b.WriteString("\n\n")
		}
	}
	out := b.String()
	out = strings.TrimRight(out, "\n") + "\n"
	return out
}
