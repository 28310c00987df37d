package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{"empty query matches", "", []string{"anything"}, true},
		{"whitespace query matches", "   ", nil, true},
		{"case insensitive", "freight", []string{"TRK-101", "Freightliner"}, true},
		{"substring in second field", "1234", []string{"Cascadia", "ABC-1234"}, true},
		{"no match", "volvo", []string{"Kenworth", "T680"}, false},
		{"accented letters", "école", []string{"ÉCOLE DEPOT"}, true},
		{"trims query", "  van  ", []string{"VAN-205"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.query, tt.fields...))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(" John Doe", "john doe "))
	assert.False(t, Equal("John Doe", "Jane Doe"))
}
