package stashids

import "strconv"

// Record is one external ID binding on a scene.
type Record struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	StashID  string `json:"stash_id" yaml:"stash_id"`
}

// Set is the ordered list of bindings for a single scene as returned by the
// store. Writes replace the whole list.
type Set []Record

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Append returns a new set holding every existing record followed by rec.
// The receiver is left untouched.
func (s Set) Append(rec Record) Set {
	out := make(Set, 0, len(s)+1)
	out = append(out, s...)
	return append(out, rec)
}

// Allocate returns the endpoint variant for a new ID under base using prefix
// matching.
func Allocate(base string, existing Set) string {
	return Matcher{Mode: ModePrefix}.Allocate(base, existing)
}

// Exists reports whether a record under base already carries stashID using
// prefix matching.
func Exists(base, stashID string, existing Set) bool {
	return Matcher{Mode: ModePrefix}.Exists(base, stashID, existing)
}

// Variant formats the endpoint for the given suffix number; zero means the
// bare base.
func Variant(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + strconv.Itoa(n)
}

// suffixNumber interprets the suffix left after stripping a base. An empty
// suffix is variant 0.
func suffixNumber(suffix string) (int, bool) {
	if suffix == "" {
		return 0, true
	}
	if !isDigits(suffix) {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
