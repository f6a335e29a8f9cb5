// Package pathkey reconciles file paths across analysis sources that record
// the same file with different spellings (absolute vs. relative, mixed case,
// Windows separators).
package pathkey

import "strings"

// Canonical normalizes a path into the canonical key form: lower case,
// forward slashes, no leading "./".
func Canonical(path string) string {
	p := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	return p
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithProgress registers a callback invoked during suffix scans, every
// 1000 keys examined. Used to surface progress on large repositories where
// the fallback scan is O(n) per miss.
func WithProgress(fn func(scanned int)) Option {
	return func(m *Matcher) {
		m.onProgress = fn
	}
}

// Matcher resolves incoming paths against a set of known canonical keys.
// Resolution tries an exact canonical match first and falls back to a linear
// bidirectional suffix scan in key insertion order, where the first match
// wins. A failed resolution is counted, never treated as an error.
//
// Matcher is not safe for concurrent use; all fusion work is single-threaded.
type Matcher struct {
	keys       []string
	index      map[string]struct{}
	unmatched  int
	scanned    int
	onProgress func(scanned int)
}

// NewMatcher creates an empty matcher.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{index: make(map[string]struct{})}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add registers a path as a known key and returns its canonical form.
// Adding the same path twice is a no-op.
func (m *Matcher) Add(path string) string {
	key := Canonical(path)
	if _, ok := m.index[key]; !ok {
		m.index[key] = struct{}{}
		m.keys = append(m.keys, key)
	}
	return key
}

// Resolve maps an incoming path to a known canonical key. The boolean is
// false when no key matches; the miss has been counted.
func (m *Matcher) Resolve(path string) (string, bool) {
	key, ok := m.Peek(path)
	if !ok {
		m.unmatched++
	}
	return key, ok
}

// Peek is Resolve without the unmatched bookkeeping. Read-side lookups use
// it so they do not inflate the fusion miss count.
func (m *Matcher) Peek(path string) (string, bool) {
	key := Canonical(path)
	if _, ok := m.index[key]; ok {
		return key, true
	}

	for i, known := range m.keys {
		m.scanned++
		if m.onProgress != nil && m.scanned%1000 == 0 {
			m.onProgress(m.scanned)
		}
		if strings.HasSuffix(known, key) || strings.HasSuffix(key, known) {
			return m.keys[i], true
		}
	}

	return "", false
}

// Unmatched returns how many resolutions have failed so far.
func (m *Matcher) Unmatched() int {
	return m.unmatched
}

// Len returns the number of registered keys.
func (m *Matcher) Len() int {
	return len(m.keys)
}
