package cheddargetter

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddParam(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{
			name:     "empty value emits nothing",
			key:      "firstName",
			value:    "",
			expected: "",
		},
		{
			name:     "simple value",
			key:      "firstName",
			value:    "Ada",
			expected: "&firstName=Ada",
		},
		{
			name:     "value needing escaping",
			key:      "notes",
			value:    "likes cheese & crackers",
			expected: "&notes=likes+cheese+%26+crackers",
		},
		{
			name:     "bracketed key passes through raw",
			key:      "subscription[planCode]",
			value:    "GOLD",
			expected: "&subscription[planCode]=GOLD",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, addParam(tc.key, tc.value))
		})
	}
}

func TestAddParamRoundTrip(t *testing.T) {
	values := []string{"plain", "with space", "a&b=c", "100% sure", "Ünïcode"}

	for _, v := range values {
		encoded := addParam("k", v)
		require.True(t, strings.HasPrefix(encoded, "&k="))

		decoded, err := url.QueryUnescape(strings.TrimPrefix(encoded, "&k="))
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	}
}

func TestAddMetadataParams(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "two pairs keep order",
			raw:      "a=1&b=2",
			expected: "&a=1&b=2",
		},
		{
			name:     "values are re-encoded",
			raw:      "greeting=hello world",
			expected: "&greeting=hello+world",
		},
		{
			name:     "pair without value",
			raw:      "flag=",
			expected: "&flag=",
		},
		{
			name:     "empty keys are dropped",
			raw:      "=orphan&a=1",
			expected: "&a=1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, addMetadataParams(tc.raw))
		})
	}
}

func TestAddMetadataParamsRoundTrip(t *testing.T) {
	encoded := addMetadataParams("a=1&b=2")

	parsed, err := url.ParseQuery(strings.TrimPrefix(encoded, "&"))
	require.NoError(t, err)
	assert.Equal(t, "1", parsed.Get("a"))
	assert.Equal(t, "2", parsed.Get("b"))
}

func TestFormatExpiryMonth(t *testing.T) {
	assert.Equal(t, "03", formatExpiryMonth("3"))
	assert.Equal(t, "12", formatExpiryMonth("12"))
	// out-of-range input passes through untouched
	assert.Equal(t, "13", formatExpiryMonth("13"))
	assert.Equal(t, "", formatExpiryMonth(""))
}

func TestParamBuilder(t *testing.T) {
	body := new(paramBuilder).
		add("code", "CUST_1").
		add("firstName", "Ada").
		add("company", "").
		addMetadata("ref=trial").
		encode()

	assert.Equal(t, "code=CUST_1&firstName=Ada&ref=trial", body)
}

func TestParamBuilderEmpty(t *testing.T) {
	assert.Equal(t, "", new(paramBuilder).encode())
}
