package orchestrate

import "github.com/spherical/pdfvlm/internal/postprocess"

// cleanMarkdown runs the post-processor with no registered image
// extraction subsystem, since this module has none.
func cleanMarkdown(raw string) string {
	return postprocess.Clean(raw, nil)
}
