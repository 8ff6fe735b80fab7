package cheddargetter

import (
	"net/url"
	"strings"
)

// addParam formats one form parameter as "&key=value" with the value
// percent-encoded. Empty values produce nothing so a bare key is never sent.
func addParam(key, value string) string {
	if value == "" {
		return ""
	}
	return "&" + key + "=" + url.QueryEscape(value)
}

// addMetadataParams re-encodes a raw, unencoded "key=value&key=value" string
// into "&key=value" pairs. Pair order is preserved. Pairs with an empty key
// are dropped.
func addMetadataParams(raw string) string {
	if raw == "" {
		return ""
	}

	var sb strings.Builder
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		sb.WriteString("&")
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(value))
	}
	return sb.String()
}

// formatExpiryMonth zero-pads a single-digit month ("3" -> "03"). Anything
// else passes through unchanged; range checking is the caller's problem.
func formatExpiryMonth(month string) string {
	if len(month) == 1 {
		return "0" + month
	}
	return month
}

// paramBuilder accumulates "&key=value" fragments for a POST body. encode
// strips the single leading "&" so the transmitted body never starts with one.
type paramBuilder struct {
	sb strings.Builder
}

func (b *paramBuilder) add(key, value string) *paramBuilder {
	b.sb.WriteString(addParam(key, value))
	return b
}

// addRaw appends an already-encoded fragment verbatim.
func (b *paramBuilder) addRaw(fragment string) *paramBuilder {
	b.sb.WriteString(fragment)
	return b
}

func (b *paramBuilder) addMetadata(raw string) *paramBuilder {
	b.sb.WriteString(addMetadataParams(raw))
	return b
}

func (b *paramBuilder) encode() string {
	return strings.TrimPrefix(b.sb.String(), "&")
}
