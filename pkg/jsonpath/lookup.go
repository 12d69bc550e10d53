package jsonpath

import (
	"strconv"
	"strings"
)

// Lookup resolves a dot-separated key against a decoded JSON value and returns
// def when the path cannot be followed.
//
// At every level the whole remaining key is tried as a literal key first, so a
// key literally named "user.name" shadows the nested user -> name path. Only
// when that fails is the key split on its first dot. Arrays are addressed by
// non-negative integer segments ("errors.0.field"). A null value is treated
// as missing, so Lookup returns def for it.
func Lookup(data any, key string, def any) any {
	if v, ok := LookupOK(data, key); ok {
		return v
	}
	return def
}

// LookupOK is like Lookup but reports whether the path resolved.
func LookupOK(data any, key string) (any, bool) {
	current := data
	rest := key

	for {
		if v, ok := Member(current, rest); ok {
			return v, true
		}

		head, tail, found := strings.Cut(rest, ".")
		if !found {
			return nil, false
		}

		next, ok := Member(current, head)
		if !ok {
			return nil, false
		}

		current = next
		rest = tail
	}
}

// Member returns the direct member key of node without any dot splitting.
// Objects are indexed by key, arrays by a canonical non-negative integer.
// A member holding JSON null counts as missing.
func Member(node any, key string) (any, bool) {
	var v any
	switch n := node.(type) {
	case map[string]any:
		v = n[key]
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(n) || strconv.Itoa(idx) != key {
			return nil, false
		}
		v = n[idx]
	}
	return v, v != nil
}
