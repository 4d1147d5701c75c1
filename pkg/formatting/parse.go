package formatting

import (
	"regexp"
	"strings"
)

var enclosingFence = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\n(.*?)\n?```$")

// Unfence removes a code fence that wraps the whole of content, as models
// often return markdown inside a ```markdown block. Content that is not
// entirely fenced is returned trimmed but otherwise unchanged.
func Unfence(content string) string {
	content = strings.TrimSpace(content)
	if m := enclosingFence.FindStringSubmatch(content); m != nil {
		inner := m[1]
		// A fence inside means the outer markers belong to separate blocks.
		if !strings.Contains(inner, "```") {
			return strings.TrimSpace(inner)
		}
	}
	return content
}
