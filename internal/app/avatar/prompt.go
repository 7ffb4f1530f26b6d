package avatar

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Personality is the style and trait set a user configured for their
// avatar.
type Personality struct {
	Style  string
	Traits []string
}

// Snippet is one retrieved message together with its relevance score.
type Snippet struct {
	Content   string
	Author    string
	Timestamp time.Time
	Score     float64
}

// BuildPrompt renders the completion prompt from the persona, the
// retrieved context and the query. The output is deterministic for a
// given input: snippets are ordered by descending score, and ties keep
// their incoming order.
func BuildPrompt(p Personality, snippets []Snippet, query string, voiceDescription string, shouldSpeak bool) string {
	ordered := make([]Snippet, len(snippets))
	copy(ordered, snippets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	lines := make([]string, 0, len(ordered))
	for _, s := range ordered {
		lines = append(lines, fmt.Sprintf("[%s] (%s): %s", s.Author, s.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"), s.Content))
	}

	voiceBlock := ""
	speakReminder := ""
	if shouldSpeak && voiceDescription != "" {
		voiceBlock = fmt.Sprintf("\n\nVOICE INSTRUCTIONS: %s\nPlease format your response in a way that follows these voice instructions while maintaining your personality.", voiceDescription)
	}
	if shouldSpeak {
		speakReminder = " Remember to follow the voice instructions when crafting your response."
	}

	return fmt.Sprintf(`You are an AI assistant with the following personality:
Style: %s
Traits: %s

CONVERSATION CONTEXT:
%s

CURRENT QUERY: %s%s

Please respond in a way that matches your personality and style.%s`,
		p.Style,
		strings.Join(p.Traits, ", "),
		strings.Join(lines, "\n"),
		query,
		voiceBlock,
		speakReminder,
	)
}
