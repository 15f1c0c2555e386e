package cv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips cid artifacts",
			input:    "John(cid:12) Doe(cid:345)",
			expected: "John Doe",
		},
		{
			name:     "strips page markers",
			input:    "intro --- Page 1 --- body ---Page 12--- end",
			expected: "intro body end",
		},
		{
			name:     "normalizes typographic dashes and quotes",
			input:    "2019–2021 — “lead” ‘dev’",
			expected: `2019-2021 - "lead" 'dev'`,
		},
		{
			name:     "replaces icons with labels",
			input:    "📍 Chennai 📧 a@b.com 📱 12345",
			expected: "Location: Chennai Email: a@b.com Phone: 12345",
		},
		{
			name:     "collapses bullet runs to a dash",
			input:    "•• Go\n● Python\n▪ SQL",
			expected: "- Go\n- Python\n- SQL",
		},
		{
			name:     "collapses separator runs",
			input:    "Skills ----- Go ___ yes",
			expected: "Skills Go yes",
		},
		{
			name:     "collapses blank lines and horizontal whitespace",
			input:    "a\n\n\nb\t\tc   d",
			expected: "a\nb c d",
		},
		{
			name:     "strips emoji not in the icon table",
			input:    "Go dev 🚀 since 2019",
			expected: "Go dev since 2019",
		},
		{
			name:     "strips remaining non-ascii",
			input:    "café résumé",
			expected: "caf r sum", // accents fall to the non-ASCII strip
		},
		{
			name:     "normalizes punctuation spacing",
			input:    "Go , Python . SQL ;",
			expected: "Go, Python. SQL;",
		},
		{
			name:     "trims",
			input:    "   text   ",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii text",
		"📍 Chennai\n\n•• Go ● Python --- Page 2 --- 2019–2021 “x”",
		"messy 🚀🚀 ---- text , with . junk  \n\n\n and ___ runs",
		"Name(cid:7) • Skill – détail",
		"trailing ws before punct a  \n . end",
	}

	for _, input := range inputs {
		once := CleanText(input)
		assert.Equal(t, once, CleanText(once), "clean(clean(x)) must equal clean(x) for %q", input)
	}
}
