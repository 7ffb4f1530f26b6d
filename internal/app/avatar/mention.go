package avatar

import (
	"regexp"
	"strings"
)

// mentionRe matches the possessive avatar address form, e.g.
// "@alice's avatar what's the plan?". The username keeps its original
// casing in the capture; matching itself is case-insensitive.
var mentionRe = regexp.MustCompile(`(?i)@([a-zA-Z0-9]+)'s\s*avatar\s+(.+)`)

// Mention is a parsed avatar address found inside message content.
type Mention struct {
	Username string
	Query    string
}

// ParseMention extracts the first avatar mention from content. It
// returns nil when the content carries no mention, or when the text
// after the address is empty once trimmed.
func ParseMention(content string) *Mention {
	m := mentionRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	query := strings.TrimSpace(m[2])
	if query == "" {
		return nil
	}
	return &Mention{Username: m[1], Query: query}
}
