package netutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAsciiBaseDomain(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected string
		isError  bool
	}{
		{
			input:    "example.com",
			expected: "example.com",
		},
		{
			input:    "Pay.Example.com",
			expected: "example.com",
		},
		{
			input:    "subdomain.bücher.com",
			expected: "xn--bcher-kva.com",
		},
		{
			input:    "bücher.com",
			expected: "xn--bcher-kva.com",
		},
		{
			input:   "localhost",
			isError: true,
		},
		{
			input:   fmt.Sprintf("%s.com", strings.Repeat("1", 64)),
			isError: true,
		},
		{
			input:   fmt.Sprintf("%s.com", strings.Repeat("1", 250)),
			isError: true,
		},
	} {
		actual, err := GetAsciiBaseDomain(tc.input)
		if tc.isError {
			assert.Error(t, err, tc.input)
		} else {
			require.NoError(t, err, tc.input)
			assert.Equal(t, tc.expected, actual)
		}
	}
}

func TestGetDomainDisplayName(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected string
	}{
		{"example.com", "Example.com"},
		{"bücher.com", "Bücher.com"},
		{"xn--bcher-kva.com", "Bücher.com"},
	} {
		actual, err := GetDomainDisplayName(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, actual)
	}

	_, err := GetDomainDisplayName("localhost")
	assert.Error(t, err)
}
