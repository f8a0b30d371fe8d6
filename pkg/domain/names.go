package domain

import (
	"strings"
	"unicode"
)

// Name syntax shared by every registry.
const (
	// ScopeSeparator splits a canonical name into scope and local part.
	ScopeSeparator = ":"
	// EdgeSeparator splits a transition short name into from and to states.
	EdgeSeparator = "__"
	// Wildcard is the from-state of a transition that leaves any state of its scope.
	Wildcard = "*"
)

// IsCanonical reports whether name is already scope-qualified.
func IsCanonical(name string) bool {
	return strings.Contains(name, ScopeSeparator)
}

// Canonical joins a scope and a local name.
func Canonical(scope, local string) string {
	return scope + ScopeSeparator + local
}

// Resolve canonicalizes a bare state or trigger name.
// Names that already carry a scope are returned unchanged. Otherwise the
// owner scope is used, falling back to fallback when the container is not
// bound to a scope (the merged engine view).
func Resolve(name, owner, fallback string) string {
	if IsCanonical(name) {
		return name
	}
	if owner != "" {
		return Canonical(owner, name)
	}
	return Canonical(fallback, name)
}

// SplitName returns the scope and local part of a canonical name.
// A name without a scope yields an empty scope.
func SplitName(name string) (scope, local string) {
	scope, local, ok := strings.Cut(name, ScopeSeparator)
	if !ok {
		return "", name
	}
	return scope, local
}

// EdgeName builds the canonical transition id scope:from__to.
func EdgeName(scope, from, to string) string {
	return Canonical(scope, from+EdgeSeparator+to)
}

// SplitEdge breaks a transition name (short or canonical) into its parts.
// ok is false when the name lacks the edge separator, has an empty to-state
// or repeats the separator.
func SplitEdge(name string) (scope, from, to string, ok bool) {
	scope, short := SplitName(name)
	from, to, ok = strings.Cut(short, EdgeSeparator)
	if !ok || to == "" || strings.Contains(to, EdgeSeparator) {
		return scope, from, to, false
	}
	return scope, from, to, true
}

// ResolveTransition canonicalizes a transition short name against scope.
// An empty from-state is normalized to the wildcard.
func ResolveTransition(name, scope string) (string, bool) {
	owner, from, to, ok := SplitEdge(name)
	if !ok {
		return "", false
	}
	if IsCanonical(name) {
		scope = owner
	}
	if from == "" {
		from = Wildcard
	}
	return EdgeName(scope, from, to), true
}

// IsWildcardEdge reports whether a canonical transition id leaves from the wildcard.
func IsWildcardEdge(edge string) bool {
	_, from, _, ok := SplitEdge(edge)
	return ok && from == Wildcard
}

// Pretty turns a snake_case identifier into a display label.
func Pretty(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
