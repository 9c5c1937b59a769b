package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil slice", nil, nil},
		{"empty slice", []string{}, []string{}},
		{"single element", []string{"U_1"}, []string{"U_1"}},
		{"trims and dedupes", []string{"  U_1 ", "U_2", "U_1", "", "  "}, []string{"U_1", "U_2"}},
		{"case sensitive", []string{"u_1", "U_1"}, []string{"u_1", "U_1"}},
		{"preserves order", []string{"c", "a", "b", "a"}, []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitDedupe(t *testing.T) {
	assert.Equal(t, []string{"U_1", "U_2"}, SplitDedupe("U_1, U_2,U_1,", ","))
	assert.Equal(t, []string{}, SplitDedupe("  ", ","))
	assert.Equal(t, []string{"U_9"}, SplitDedupe("U_9", ","))
}
