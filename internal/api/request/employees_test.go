package request

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/staffapi/internal/services/directory"
)

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"2", 2},
		{"  3", 3},
		{"+4", 4},
		{"-1", -1},
		{"0", 0},
		{"2abc", 2},
		{"1.9", 1},
		{"1e3", 1},
		{"0x10", 0},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{" ", 0},
		{"99999999999999999999", math.MaxInt32},
		{"-99999999999999999999", math.MinInt32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLeadingInt(tt.in), "input %q", tt.in)
	}
}

func TestParseEmployeeQuery(t *testing.T) {
	tests := []struct {
		query string
		want  directory.Filter
	}{
		{"", directory.Filter{}},
		{"user=true", directory.Filter{UsersOnly: true}},
		{"user=TRUE", directory.Filter{}},
		{"user=1", directory.Filter{}},
		{"user=false", directory.Filter{}},
		{"badges=black", directory.Filter{Badge: "black"}},
		{"badges=", directory.Filter{}},
		{"page=2&user=true&badges=red", directory.Filter{UsersOnly: true, Badge: "red", Page: 2}},
		{"page=abc", directory.Filter{}},
		{"page=3&page=1", directory.Filter{Page: 3}},
	}
	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, ParseEmployeeQuery(q), "query %q", tt.query)
	}
}
