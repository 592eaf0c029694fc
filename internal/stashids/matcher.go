package stashids

import (
	"fmt"
	"strings"
)

// Mode selects how a stored endpoint is tied to a base endpoint.
type Mode string

const (
	// ModePrefix treats every endpoint that starts with the base as part of
	// its instance group. A base of "https://a" therefore also claims
	// "https://ab".
	ModePrefix Mode = "prefix"
	// ModeStrict only accepts the base itself or the base followed by decimal
	// digits.
	ModeStrict Mode = "strict"
)

// ParseMode normalizes a configured matching mode. Empty input selects
// ModePrefix.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModePrefix:
		return ModePrefix, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("unsupported matching mode %q (want %q or %q)", value, ModePrefix, ModeStrict)
	}
}

// Matcher applies a Mode to allocation and duplicate checks.
type Matcher struct {
	Mode Mode
}

// belongs reports whether endpoint is in the instance group of base and
// returns the suffix left after the base.
func (m Matcher) belongs(base, endpoint string) (string, bool) {
	if !strings.HasPrefix(endpoint, base) {
		return "", false
	}
	suffix := endpoint[len(base):]
	if m.Mode == ModeStrict && suffix != "" && !isDigits(suffix) {
		return "", false
	}
	return suffix, true
}

// Allocate returns the smallest free endpoint variant for base: the base
// itself when variant 0 is unused, otherwise base followed by the lowest
// unused positive integer.
func (m Matcher) Allocate(base string, existing Set) string {
	used := make(map[int]struct{}, len(existing))
	for _, rec := range existing {
		suffix, ok := m.belongs(base, rec.Endpoint)
		if !ok {
			continue
		}
		if n, ok := suffixNumber(suffix); ok {
			used[n] = struct{}{}
		}
	}
	n := 0
	for {
		if _, taken := used[n]; !taken {
			return Variant(base, n)
		}
		n++
	}
}

// Exists reports whether some record in the instance group of base carries
// exactly stashID.
func (m Matcher) Exists(base, stashID string, existing Set) bool {
	for _, rec := range existing {
		if _, ok := m.belongs(base, rec.Endpoint); !ok {
			continue
		}
		if rec.StashID == stashID {
			return true
		}
	}
	return false
}
