package domain_test

import (
	"fmt"
	"testing"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestBrokenStateModelError(t *testing.T) {
	t.Run("Messages", func(t *testing.T) {
		assert.EqualError(t, domain.UntriggerableTransition("s:a__b"),
			"Transition s:a__b has no events that can trigger it")
		assert.EqualError(t, domain.EmptyEvent("goo"), "Event goo contains no transitions")
		assert.EqualError(t, domain.UnreachableStates("s", []string{"s:c", "s:d"}, false),
			"States [s:c, s:d] not reachable from initial state")
		assert.EqualError(t, domain.UnreachableStates("s", []string{"s:c"}, true),
			"States [s:c] not reachable from initial state in scope s")
		assert.EqualError(t, domain.MalformedEngine(""), "Engine needs scopes defined as a scope list")
	})

	t.Run("Code Through Wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", domain.EmptyEvent("goo"))
		assert.True(t, domain.IsBroken(err))
		assert.Equal(t, domain.CodeEmptyEvent, domain.CodeOf(err))
	})

	t.Run("Foreign Errors", func(t *testing.T) {
		assert.False(t, domain.IsBroken(domain.ErrNotFound))
		assert.Equal(t, domain.Code(""), domain.CodeOf(domain.ErrNotFound))
	})
}
