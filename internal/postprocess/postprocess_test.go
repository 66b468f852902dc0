package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_LiteralExample(t *testing.T) {
	in := "```markdown\n# H\n\n\n\n\ntext  \n```\n"
	want := "# H\n\ntext\n"
	assert.Equal(t, want, Clean(in, nil))
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"```markdown\n# H\n\n\n\n\ntext  \n```\n",
		"Here is the markdown\n# Title\ncontent",
		"line1\r\nline2\r\n",
		"| a | b |\n| 1 | 2 |\n",
		"text with \xe2\x80\x8btrailing invisible\xef\xbb\xbf chars\n",
		"",
	}
	for _, in := range inputs {
		once := Clean(in, nil)
		twice := Clean(once, nil)
		assert.Equal(t, once, twice, "Clean must be idempotent for input %q", in)
	}
}

func TestClean_StripsPreamble(t *testing.T) {
	in := "Sure, here is the converted page:\n# Title\ncontent\n"
	out := Clean(in, nil)
	assert.NotContains(t, out, "Sure, here")
}

func TestClean_CollapsesBlankLines(t *testing.T) {
	in := "a\n\n\n\n\nb\n"
	out := Clean(in, nil)
	assert.Equal(t, "a\n\nb\n", out)
}

func TestClean_TrimsTrailingWhitespace(t *testing.T) {
	in := "line with trailing   \nanother\t\n"
	out := Clean(in, nil)
	for _, line := range []string{"line with trailing", "another"} {
		assert.Contains(t, out, line)
	}
}

func TestRepairTables_InsertsMissingSeparator(t *testing.T) {
	in := "| Name | Value |\n| foo | bar |\n"
	out := repairTables(in)
	assert.Contains(t, out, "| Name | Value |\n|---|---|\n| foo | bar |")
}

func TestRepairTables_LeavesWellFormedTableAlone(t *testing.T) {
	in := "| Name | Value |\n|---|---|\n| foo | bar |\n"
	out := repairTables(in)
	assert.Equal(t, in, out)
}

func TestRemoveHallucinatedImages(t *testing.T) {
	in := "text ![nothing]() more text\n"
	out := Clean(in, nil)
	assert.NotContains(t, out, "![nothing]")
}

func TestRemoveHallucinatedImages_KeepsRegistered(t *testing.T) {
	in := "text ![fig](fig1.png) more\n"
	out := Clean(in, func(target string) bool { return target == "fig1.png" })
	assert.Contains(t, out, "![fig](fig1.png)")
}
