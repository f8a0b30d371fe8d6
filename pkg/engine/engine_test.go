package engine_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/engine"
	"github.com/grigi/workstate/pkg/scope"
)

func mustScope(t *testing.T, def scope.Definition) *scope.Scope {
	t.Helper()
	s, err := scope.Build(def)
	require.NoError(t, err)
	return s
}

func simple(t *testing.T, name string) *scope.Scope {
	return mustScope(t, scope.Definition{
		Name:    name,
		Initial: "first",
		Events:  []scope.EventDecl{{Name: "goo", Transitions: []string{"first__second"}}},
	})
}

func TestNew_MalformedScopes(t *testing.T) {
	tests := []struct {
		name   string
		scopes []*scope.Scope
	}{
		{"nil list", nil},
		{"empty list", []*scope.Scope{}},
		{"nil element", []*scope.Scope{nil}},
		{"unbuilt element", []*scope.Scope{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := engine.New(tt.scopes)
			assert.Nil(t, e)
			require.Error(t, err)
			assert.Equal(t, domain.CodeMalformedEngine, domain.CodeOf(err))
			assert.Regexp(t, "Engine needs scopes", err.Error())
		})
	}
}

func TestNew_AutoValidation(t *testing.T) {
	s := mustScope(t, scope.Definition{
		Name:    "Scope1",
		Initial: "first",
		Events: []scope.EventDecl{
			{Name: "goo", Transitions: []string{"first__second"}},
			{Name: "gaa", Transitions: []string{"fourth__third"}},
		},
	})

	e, err := engine.New([]*scope.Scope{s})
	assert.Nil(t, e)
	require.Error(t, err)
	assert.Regexp(t, "States.*not reachable", err.Error())
}

func TestNew_TwoScopes(t *testing.T) {
	s1 := simple(t, "Scope1")
	s2 := simple(t, "Scope2")

	e, err := engine.New([]*scope.Scope{s1, s2})
	require.NoError(t, err)

	assert.Equal(t, engine.PhaseReady, e.Phase())
	assert.True(t, e.Ready())
	assert.Equal(t, []string{"scope1", "scope2"}, e.ScopeNames())
	assert.Equal(t, map[string]string{"scope1": "first", "scope2": "first"}, e.Initials())
	assert.Equal(t, "scope2:first", e.InitialID("scope2"))

	set := e.Registries()
	assert.Equal(t, []string{"scope1:first", "scope1:second", "scope2:first", "scope2:second"}, set.States.IDs())
	assert.Equal(t, []string{"scope1:first__second", "scope2:first__second"}, set.Transitions.IDs())

	goo, ok := set.Events.Lookup("goo")
	require.True(t, ok)
	assert.Equal(t, []string{"scope1:first__second", "scope2:first__second"}, goo.Transitions)

	assert.Equal(t, []string{"scope1:first", "scope1:second"}, e.OrderStates("scope1"))
	assert.Equal(t, []string{"scope2:first", "scope2:second"}, e.OrderStates("scope2"))
}

func TestNew_DoesNotTouchMembers(t *testing.T) {
	s1 := simple(t, "Scope1")
	s2 := mustScope(t, scope.Definition{
		Name:    "Scope2",
		Initial: "first",
		Events:  []scope.EventDecl{{Name: "goo", Transitions: []string{"first__second", "scope1:second__first"}}},
	})

	_, err := engine.New([]*scope.Scope{s1, s2})
	require.NoError(t, err)

	first, ok := s1.Registries().States.Lookup("scope1:first")
	require.True(t, ok)
	assert.Empty(t, first.SourceEdges)
	assert.Equal(t, 1, s1.Registries().Transitions.Len())
}

func TestNew_EngineLevelReachability(t *testing.T) {
	s1 := simple(t, "Scope1")
	s2 := mustScope(t, scope.Definition{
		Name:    "Scope2",
		Initial: "first",
		Events: []scope.EventDecl{
			{Name: "bar", Transitions: []string{"first__second", "scope1:third__fourth"}},
		},
	})
	require.NoError(t, s1.Validate())
	require.NoError(t, s2.Validate())

	_, err := engine.New([]*scope.Scope{s1, s2})
	require.Error(t, err)
	assert.EqualError(t, err, "States [scope1:third, scope1:fourth] not reachable from initial state in scope scope1")

	var broken *domain.BrokenStateModelError
	require.ErrorAs(t, err, &broken)
	assert.Equal(t, "scope1", broken.Scope)
}

func TestNew_CrossScopeStateNames(t *testing.T) {
	s1 := mustScope(t, scope.Definition{Name: "Scope1", Initial: "first"})
	s2 := mustScope(t, scope.Definition{
		Name:    "Scope2",
		Initial: "first",
		Events:  []scope.EventDecl{{Name: "goo", Transitions: []string{"first__second", "scope1:first__second"}}},
	})

	e, err := engine.New([]*scope.Scope{s1, s2})
	require.NoError(t, err)
	assert.Equal(t, []string{"scope1:first", "scope1:second"}, e.OrderStates("scope1"))
	assert.Equal(t, []string{"scope2:first", "scope2:second"}, e.OrderStates("scope2"))
}

func TestNew_ReferencedScopeWithoutMember(t *testing.T) {
	s1 := mustScope(t, scope.Definition{
		Name:   "Scope1",
		Events: []scope.EventDecl{{Name: "goo", Transitions: []string{"first__second", "other:a__b"}}},
	})

	e, err := engine.New([]*scope.Scope{s1})
	require.NoError(t, err)

	assert.Equal(t, []string{"scope1", "other"}, e.ScopeNames())
	_, ok := e.Initial("other")
	assert.False(t, ok)
	assert.Equal(t, []string{"other:a", "other:b"}, e.OrderStates("other"))
}

func TestNew_FirstMemberInitialWins(t *testing.T) {
	s1 := mustScope(t, scope.Definition{Name: "dup"})
	s2 := simple(t, "dup")

	e, err := engine.New([]*scope.Scope{s1, s2})
	require.NoError(t, err)

	_, ok := e.Initial("dup")
	assert.False(t, ok)
	assert.Equal(t, []string{"dup"}, e.ScopeNames())
}

func TestNew_TriggerLinksDependOnOrder(t *testing.T) {
	watcher := func() *scope.Scope {
		return mustScope(t, scope.Definition{
			Name:    "Scope1",
			Initial: "first",
			Events:  []scope.EventDecl{{Name: "foo", Transitions: []string{"first__second"}}},
			Triggers: []scope.TriggerDecl{
				{Name: "justdoit", Event: "foo", States: []string{"scope2:first"}},
			},
		})
	}
	watched := func() *scope.Scope {
		return mustScope(t, scope.Definition{
			Name:    "Scope2",
			Initial: "first",
			Events:  []scope.EventDecl{{Name: "bar", Transitions: []string{"first__second"}}},
		})
	}

	before, err := engine.New([]*scope.Scope{watcher(), watched()})
	require.NoError(t, err)
	st, ok := before.Registries().States.Lookup("scope2:first")
	require.True(t, ok)
	assert.Empty(t, st.Triggers, "watched scope merged after the trigger is never linked")

	after, err := engine.New([]*scope.Scope{watched(), watcher()})
	require.NoError(t, err)
	st, ok = after.Registries().States.Lookup("scope2:first")
	require.True(t, ok)
	assert.Equal(t, []string{"scope1:justdoit"}, st.Triggers)
}

func TestNew_CrossScopeTriggerLink(t *testing.T) {
	s1 := mustScope(t, scope.Definition{
		Name:    "Scope1",
		Initial: "first",
		Events:  []scope.EventDecl{{Name: "foo", Transitions: []string{"first__second"}}},
	})
	s2 := mustScope(t, scope.Definition{
		Name:    "Scope2",
		Initial: "first",
		Events:  []scope.EventDecl{{Name: "bar", Transitions: []string{"first__second", "second__third"}}},
		Triggers: []scope.TriggerDecl{
			{Name: "justdoit", Event: "bar", States: []string{"scope1:second"}},
		},
	})

	e, err := engine.New([]*scope.Scope{s1, s2})
	require.NoError(t, err)

	second, ok := e.Registries().States.Lookup("scope1:second")
	require.True(t, ok)
	assert.Equal(t, []string{"scope2:justdoit"}, second.Triggers)

	bar, ok := e.Registries().Events.Lookup("bar")
	require.True(t, ok)
	assert.Equal(t, []string{"scope2:justdoit"}, bar.Triggers)
}

func TestNew_TriggerOnForeignEventFailsMemberValidation(t *testing.T) {
	s1 := mustScope(t, scope.Definition{
		Name:    "Scope1",
		Initial: "first",
		Events:  []scope.EventDecl{{Name: "foo", Transitions: []string{"first__second"}}},
		Triggers: []scope.TriggerDecl{
			{Name: "justdoit", Event: "bar", States: []string{"second"}},
		},
	})
	s2 := mustScope(t, scope.Definition{
		Name:    "Scope2",
		Initial: "first",
		Events:  []scope.EventDecl{{Name: "bar", Transitions: []string{"first__second"}}},
	})

	_, err := engine.New([]*scope.Scope{s1, s2})
	require.Error(t, err)
	assert.Equal(t, domain.CodeEmptyEvent, domain.CodeOf(err))
}

func TestValidate_Repeatable(t *testing.T) {
	e, err := engine.New([]*scope.Scope{simple(t, "Scope1")})
	require.NoError(t, err)

	assert.NoError(t, e.Validate())
	assert.NoError(t, e.Validate())
	assert.Equal(t, engine.PhaseReady, e.Phase())
}

func TestZeroEngine(t *testing.T) {
	var e engine.Engine
	assert.Equal(t, engine.PhaseUninitialized, e.Phase())
	assert.False(t, e.Ready())
	assert.Equal(t, domain.CodeMalformedEngine, domain.CodeOf(e.Validate()))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := engine.New([]*scope.Scope{simple(t, "Scope1")}, engine.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "merging scope")
	assert.Contains(t, buf.String(), "engine ready")

	buf.Reset()
	broken := mustScope(t, scope.Definition{
		Name:        "Broken",
		Transitions: []scope.TransitionDecl{{Name: "a__b"}},
	})
	_, err = engine.New([]*scope.Scope{broken}, engine.WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "engine validation failed")
	assert.Contains(t, buf.String(), "UNTRIGGERABLE_TRANSITION")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "uninitialized", engine.PhaseUninitialized.String())
	assert.Equal(t, "merging", engine.PhaseMerging.String())
	assert.Equal(t, "validating", engine.PhaseValidating.String())
	assert.Equal(t, "ready", engine.PhaseReady.String())
	assert.Equal(t, "broken", engine.PhaseBroken.String())
	assert.Equal(t, "unknown", engine.Phase(42).String())
}
