package domain_test

import (
	"testing"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name, owner, fallback string
		want                  string
	}{
		{"first", "scope1", "", "scope1:first"},
		{"scope2:first", "scope1", "", "scope2:first"},
		{"first", "", "scope3", "scope3:first"},
		{"scope2:first", "", "scope3", "scope2:first"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.Resolve(tt.name, tt.owner, tt.fallback))
	}
}

func TestResolveTransition(t *testing.T) {
	t.Run("Short Name", func(t *testing.T) {
		got, ok := domain.ResolveTransition("first__second", "scope1")
		assert.True(t, ok)
		assert.Equal(t, "scope1:first__second", got)
	})

	t.Run("Empty From Is Wildcard", func(t *testing.T) {
		got, ok := domain.ResolveTransition("__third", "scope1")
		assert.True(t, ok)
		assert.Equal(t, "scope1:*__third", got)
	})

	t.Run("Explicit Wildcard", func(t *testing.T) {
		got, ok := domain.ResolveTransition("*__third", "scope1")
		assert.True(t, ok)
		assert.Equal(t, "scope1:*__third", got)
	})

	t.Run("Canonical Passes Through", func(t *testing.T) {
		got, ok := domain.ResolveTransition("scope2:second__third", "scope1")
		assert.True(t, ok)
		assert.Equal(t, "scope2:second__third", got)
	})

	t.Run("Missing Separator", func(t *testing.T) {
		_, ok := domain.ResolveTransition("first-second", "scope1")
		assert.False(t, ok)
		_, ok = domain.ResolveTransition("scope1:first", "scope1")
		assert.False(t, ok)
	})

	t.Run("Empty To", func(t *testing.T) {
		_, ok := domain.ResolveTransition("first__", "scope1")
		assert.False(t, ok)
		_, ok = domain.ResolveTransition("scope1:first__", "scope1")
		assert.False(t, ok)
	})

	t.Run("Repeated Separator", func(t *testing.T) {
		_, ok := domain.ResolveTransition("first__second__third", "scope1")
		assert.False(t, ok)
		_, _, _, ok = domain.SplitEdge("scope1:first__second__third")
		assert.False(t, ok)
	})

	t.Run("Canonical Empty From Is Wildcard", func(t *testing.T) {
		got, ok := domain.ResolveTransition("scope2:__third", "scope1")
		assert.True(t, ok)
		assert.Equal(t, "scope2:*__third", got)
	})
}

func TestSplitEdge(t *testing.T) {
	scope, from, to, ok := domain.SplitEdge("quote:*__cancelled")
	assert.True(t, ok)
	assert.Equal(t, "quote", scope)
	assert.Equal(t, "*", from)
	assert.Equal(t, "cancelled", to)
	assert.True(t, domain.IsWildcardEdge("quote:*__cancelled"))
	assert.False(t, domain.IsWildcardEdge("quote:draft__cancelled"))
}

func TestPretty(t *testing.T) {
	assert.Equal(t, "Do It", domain.Pretty("do_it"))
	assert.Equal(t, "In Progress", domain.Pretty("in_progress"))
	assert.Equal(t, "First", domain.Pretty("first"))
	assert.Equal(t, "", domain.Pretty(""))
}
