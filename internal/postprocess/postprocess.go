// Package postprocess implements the deterministic, pure cleanup rules
// applied to raw VLM output before it is assembled into the final
// document. Clean is idempotent: Clean(Clean(x)) == Clean(x) for every
// input, because each rule below is itself idempotent and their order
// does not reintroduce a pattern an earlier rule already removed.
package postprocess

import (
	"regexp"
	"strings"
)

var (
	outerFenceRe   = regexp.MustCompile("(?s)^\\s*```(?:markdown)?\\s*\\n(.*?)\\n?```\\s*$")
	preambleRe     = regexp.MustCompile(`(?i)^\s*(here(?:'s| is)[^\n]*|sure,?[^\n]*)\n+`)
	blankRunsRe    = regexp.MustCompile(`\n{3,}`)
	headingRe      = regexp.MustCompile(`(?m)^(#{1,6}\s.*)$`)
	hallucinatedRe = regexp.MustCompile(`!\[[^\]]*\]\(\s*\)`)
	invisibleRe    = regexp.MustCompile(`[\x{200B}\x{FEFF}\x{00AD}]`)
)

// RegisteredImage reports whether an image target has been registered by
// an out-of-core image-extraction subsystem; Clean never removes a
// reference this returns true for. With the zero value (nil), Clean
// removes only references whose target is empty and keeps every other
// image reference.
type RegisteredImage func(target string) bool

// Clean applies the ten ordered rules to raw VLM output.
func Clean(raw string, registered RegisteredImage) string {
	s := raw

	s = stripOuterFence(s)
	s = stripPreamble(s)
	s = normaliseLineEndings(s)
	s = stripTrailingWhitespace(s)
	s = collapseBlankRuns(s)
	s = spaceHeadings(s)
	s = repairTables(s)
	s = removeHallucinatedImages(s, registered)
	s = invisibleRe.ReplaceAllString(s, "")
	s = ensureSingleTrailingNewline(s)

	return s
}

func stripOuterFence(s string) string {
	if m := outerFenceRe.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return m[1]
	}
	return s
}

func stripPreamble(s string) string {
	return preambleRe.ReplaceAllString(s, "")
}

func normaliseLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

func stripTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

func collapseBlankRuns(s string) string {
	return blankRunsRe.ReplaceAllString(s, "\n\n")
}

func spaceHeadings(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	isHeading := func(l string) bool { return headingRe.MatchString(l) }
	for i, l := range lines {
		if isHeading(l) {
			if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
				out = append(out, "")
			}
			out = append(out, l)
			if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
				out = append(out, "")
			}
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func removeHallucinatedImages(s string, registered RegisteredImage) string {
	if registered == nil {
		return hallucinatedRe.ReplaceAllString(s, "")
	}
	return imageRefRe.ReplaceAllStringFunc(s, func(match string) string {
		sub := imageRefRe.FindStringSubmatch(match)
		target := sub[1]
		if target == "" || !registered(target) {
			return ""
		}
		return match
	})
}

var imageRefRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)]*)\)`)

func ensureSingleTrailingNewline(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}
