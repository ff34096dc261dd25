package manifest

import (
	"regexp"
	"strings"
)

var (
	invalidIDChars       = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRuns       = regexp.MustCompile(`\s+`)
	underscoreRuns       = regexp.MustCompile(`_+`)
	edgeUnderscores      = regexp.MustCompile(`^_+|_+$`)
)

// GenerateAgentID derives a manifest ID from a display name: lowercase,
// special characters stripped, whitespace collapsed to single underscores,
// leading/trailing underscores removed. May return "" for names with no
// usable characters; callers must still validate the result.
func GenerateAgentID(name string) string {
	id := strings.ToLower(name)
	id = invalidIDChars.ReplaceAllString(id, "")
	id = whitespaceRuns.ReplaceAllString(id, "_")
	id = underscoreRuns.ReplaceAllString(id, "_")
	id = edgeUnderscores.ReplaceAllString(id, "")
	return id
}
