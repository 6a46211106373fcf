package util

import (
	"strings"
)

// Pair is a single name/value entry of a header or query list.
type Pair struct {
	Name  string
	Value string
}

// Pairs is an ordered list of name/value entries where names are unique
// when compared case-insensitively.
type Pairs []Pair

// Index returns the position of name in p, or -1.
func (p Pairs) Index(name string) int {
	for i, pair := range p {
		if strings.EqualFold(pair.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the value stored for name.
func (p Pairs) Get(name string) (string, bool) {
	if i := p.Index(name); i >= 0 {
		return p[i].Value, true
	}
	return "", false
}

// Set replaces the value of an existing entry, keeping its position and
// original spelling, or appends a new one.
func (p Pairs) Set(name, value string) Pairs {
	if i := p.Index(name); i >= 0 {
		p[i].Value = value
		return p
	}
	return append(p, Pair{Name: name, Value: value})
}

// Clone returns a copy of p which shares no storage with it.
func (p Pairs) Clone() Pairs {
	if p == nil {
		return nil
	}
	return append(make(Pairs, 0, len(p)), p...)
}

// TrimTrailingSlashes removes every trailing "/" from s.
func TrimTrailingSlashes(s string) string {
	return strings.TrimRight(s, "/")
}
