package order

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	trackingPrefixLen   = 3
	trackingSuffixLen   = 8
	trackingAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	fallbackTrackingTag = "ORD"
)

// TrackingIDPattern matches identifiers produced by TrackingIDGenerator.
var TrackingIDPattern = regexp.MustCompile(`^[\p{L}\p{N}]{1,3}-[A-Z0-9]{8}$`)

// TrackingIDGenerator derives short public order identifiers such as "JOH-4KQ9Z2MA".
type TrackingIDGenerator struct {
	suffix func() (string, error)
}

func NewTrackingIDGenerator() *TrackingIDGenerator {
	return &TrackingIDGenerator{
		suffix: func() (string, error) {
			return gonanoid.Generate(trackingAlphabet, trackingSuffixLen)
		},
	}
}

// NewTrackingIDGeneratorWithSource uses suffix as the random part. Mainly for tests.
func NewTrackingIDGeneratorWithSource(suffix func() (string, error)) *TrackingIDGenerator {
	return &TrackingIDGenerator{suffix: suffix}
}

func (g *TrackingIDGenerator) Generate(customerName string) (string, error) {
	suffix, err := g.suffix()
	if err != nil {
		return "", fmt.Errorf("failed to generate tracking suffix: %w", err)
	}
	return trackingPrefix(customerName) + "-" + strings.ToUpper(suffix), nil
}

// trackingPrefix keeps the first three letters or digits of the name in any
// script, uppercased. Names with none fall back to "ORD".
func trackingPrefix(name string) string {
	prefix := make([]rune, 0, trackingPrefixLen)
	for _, r := range strings.ToUpper(name) {
		if len(prefix) == trackingPrefixLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			prefix = append(prefix, r)
		}
	}
	if len(prefix) == 0 {
		return fallbackTrackingTag
	}
	return string(prefix)
}

// TrackingURL returns the public tracking page for trackingID under baseURL.
func TrackingURL(baseURL, trackingID string) string {
	return strings.TrimRight(baseURL, "/") + "/track/" + url.PathEscape(trackingID)
}
