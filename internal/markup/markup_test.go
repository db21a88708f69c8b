package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  ",
			expected: "",
		},
		{
			name:     "plain text passes through",
			input:    "Senior Go engineer",
			expected: "Senior Go engineer",
		},
		{
			name:     "allowed formatting survives",
			input:    "<p>We need a <strong>Go</strong> engineer</p>",
			expected: "<p>We need a <strong>Go</strong> engineer</p>",
		},
		{
			name:     "lists survive",
			input:    "<ul><li>Go</li><li>PostgreSQL</li></ul>",
			expected: "<ul><li>Go</li><li>PostgreSQL</li></ul>",
		},
		{
			name:     "script removed with content",
			input:    "<p>hello</p><script>alert(1)</script>",
			expected: "<p>hello</p>",
		},
		{
			name:     "style removed with content",
			input:    "<style>body{display:none}</style><p>visible</p>",
			expected: "<p>visible</p>",
		},
		{
			name:     "disallowed element unwrapped",
			input:    "<div><span>text survives</span></div>",
			expected: "text survives",
		},
		{
			name:     "attributes stripped",
			input:    `<p class="x" onclick="alert(1)">text</p>`,
			expected: "<p>text</p>",
		},
		{
			name:     "safe link keeps href",
			input:    `<a href="https://example.com">apply</a>`,
			expected: `<a href="https://example.com" rel="noopener noreferrer">apply</a>`,
		},
		{
			name:     "javascript href dropped",
			input:    `<a href="javascript:alert(1)">apply</a>`,
			expected: "<a>apply</a>",
		},
		{
			name:     "mailto href kept",
			input:    `<a href="mailto:jobs@example.com">mail us</a>`,
			expected: `<a href="mailto:jobs@example.com" rel="noopener noreferrer">mail us</a>`,
		},
		{
			name:     "text escaped",
			input:    "salary < 100k & benefits",
			expected: "salary &lt; 100k &amp; benefits",
		},
		{
			name:     "br stays void",
			input:    "line one<br>line two",
			expected: "line one<br>line two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "markup removed",
			input:    "<p>We need a <strong>Go</strong> engineer</p>",
			expected: "We need a Go engineer",
		},
		{
			name:     "whitespace collapsed",
			input:    "<p>one</p>\n\n<p>two   three</p>",
			expected: "one two three",
		},
		{
			name:     "script content dropped",
			input:    "<script>alert(1)</script>visible",
			expected: "visible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}

func TestPreview(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "short", Preview("<p>short</p>", 50))
	})

	t.Run("long text truncated with ellipsis", func(t *testing.T) {
		got := Preview("<p>abcdefghij</p>", 5)
		assert.Equal(t, "abcde…", got)
	})

	t.Run("truncation counts runes not bytes", func(t *testing.T) {
		got := Preview("日本語のテキストです", 4)
		assert.Equal(t, "日本語の…", got)
	})
}
