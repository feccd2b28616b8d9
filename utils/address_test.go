package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name     string
		street   string
		number   string
		code     string
		city     string
		expected string
	}{
		{
			name:     "full address",
			street:   "Main Street",
			number:   "12",
			code:     "00-001",
			city:     "Warsaw",
			expected: "Main Street 12, 00-001 Warsaw",
		},
		{
			name:     "no street number",
			street:   "Main Street",
			code:     "00-001",
			city:     "Warsaw",
			expected: "Main Street, 00-001 Warsaw",
		},
		{
			name:     "street only",
			street:   "Main Street",
			expected: "Main Street",
		},
		{
			name:     "city only",
			city:     "Warsaw",
			expected: "Warsaw",
		},
		{
			name:     "postal code and city",
			code:     "00-001",
			city:     "Warsaw",
			expected: "00-001 Warsaw",
		},
		{
			name:     "empty address",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAddress(tt.street, tt.number, tt.code, tt.city))
		})
	}
}
