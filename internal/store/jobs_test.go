package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain term untouched", input: "engineer", expected: "engineer"},
		{name: "percent escaped", input: "50% remote", expected: `50\% remote`},
		{name: "underscore escaped", input: "go_dev", expected: `go\_dev`},
		{name: "backslash escaped first", input: `C:\jobs`, expected: `C:\\jobs`},
		{name: "all wildcards", input: `\%_`, expected: `\\\%\_`},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeLike(tt.input))
		})
	}
}
