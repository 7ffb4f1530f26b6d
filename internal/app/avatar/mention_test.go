package avatar

import "testing"

func TestParseMention(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		username string
		query    string
	}{
		{
			name:     "basic mention",
			content:  "@alice's avatar what's the plan?",
			username: "alice",
			query:    "what's the plan?",
		},
		{
			name:     "mention mid-sentence",
			content:  "hey @bob's avatar tell me a joke",
			username: "bob",
			query:    "tell me a joke",
		},
		{
			name:     "case insensitive with casing preserved",
			content:  "@Bob'S AVATAR hi",
			username: "Bob",
			query:    "hi",
		},
		{
			name:     "no space between possessive and avatar",
			content:  "@carol'savatar how are you",
			username: "carol",
			query:    "how are you",
		},
		{
			name:    "mention without query",
			content: "hello @alice's avatar",
		},
		{
			name:    "missing possessive",
			content: "@alice avatar plan",
		},
		{
			name:    "no mention at all",
			content: "just a normal message",
		},
		{
			name:    "query of only whitespace",
			content: "@alice's avatar    ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMention(tt.content)
			if tt.username == "" {
				if m != nil {
					t.Fatalf("expected no mention, got %+v", m)
				}
				return
			}
			if m == nil {
				t.Fatalf("expected mention, got nil")
			}
			if m.Username != tt.username {
				t.Errorf("username = %q, want %q", m.Username, tt.username)
			}
			if m.Query != tt.query {
				t.Errorf("query = %q, want %q", m.Query, tt.query)
			}
		})
	}
}
