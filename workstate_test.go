package workstate_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grigi/workstate"
	"github.com/grigi/workstate/internal/testutils"
	"github.com/grigi/workstate/pkg/adapters/memory"
	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/dsl"
)

func ticketModel(t *testing.T) *memory.Loader {
	t.Helper()
	b := dsl.New("ticket").Initial("open")
	b.Event("start", "open__in_progress")
	b.Event("finish", "in_progress__done")
	b.Event("reopen", "__open")
	loader, err := memory.NewFromBuilders("tickets", b)
	require.NoError(t, err)
	return loader
}

func brokenModel(t *testing.T) *memory.Loader {
	t.Helper()
	b := dsl.New("s").Initial("a")
	b.Event("go", "a__b")
	b.State("lost", "Nothing leads here")
	loader, err := memory.NewFromBuilders("broken", b)
	require.NoError(t, err)
	return loader
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := workstate.New("")
	assert.Error(t, err)
}

func TestLoad_ValidModel(t *testing.T) {
	ws, err := workstate.New("", workstate.WithLoader(ticketModel(t)))
	require.NoError(t, err)

	m, err := ws.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, m.Valid())
	assert.Equal(t, "tickets", m.Name)
	assert.Equal(t, []string{"ticket"}, m.ScopeNames())
	assert.Equal(t, map[string][]string{
		"ticket": {"ticket:open", "ticket:in_progress", "ticket:done"},
	}, m.OrderedStates())
	assert.Nil(t, m.Unreachable())

	g, err := m.Graph()
	require.NoError(t, err)
	assert.Len(t, g.Nodes(), 4, "three states and the wildcard node")
}

func TestLoad_BrokenModel(t *testing.T) {
	ws, err := workstate.New("", workstate.WithLoader(brokenModel(t)))
	require.NoError(t, err)

	m, err := ws.Load(context.Background())
	require.NoError(t, err, "broken models still load")
	assert.False(t, m.Valid())
	assert.Nil(t, m.Engine)
	assert.Equal(t, domain.CodeUnreachableStates, domain.CodeOf(m.Err))
	assert.Equal(t, []string{"s:lost"}, m.Unreachable())

	_, err = m.Graph()
	assert.Equal(t, m.Err, err)

	draft := m.DraftGraph()
	_, ok := draft.Node("s:lost")
	assert.True(t, ok, "draft graphs keep unreachable states")

	assert.Equal(t, m.Err, ws.Validate(context.Background()))
}

func TestLoad_MalformedDeclaration(t *testing.T) {
	ws, err := workstate.New("", workstate.WithLoader(memory.NewLoader("bad", dsl.New("a:b").Definition())))
	require.NoError(t, err)

	_, err = ws.Load(context.Background())
	assert.Equal(t, domain.CodeMalformedDeclaration, domain.CodeOf(err))
}

func TestLoad_CancelledContext(t *testing.T) {
	ws, err := workstate.New("", workstate.WithLoader(ticketModel(t)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ws.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_SavesToStore(t *testing.T) {
	store := memory.NewStore()
	ws, err := workstate.New("", workstate.WithLoader(ticketModel(t)), workstate.WithStore(store))
	require.NoError(t, err)
	ctx := context.Background()

	snap, err := ws.Snapshot(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "tickets", snap.Name)
	assert.True(t, snap.Valid)

	stored, err := store.Load(ctx, "tickets")
	require.NoError(t, err)
	assert.Equal(t, snap.Initials, stored.Initials)
	assert.Equal(t, map[string]string{"ticket": "open"}, stored.Initials)
}

func TestSnapshot_BrokenModel(t *testing.T) {
	store := memory.NewStore()
	ws, err := workstate.New("", workstate.WithLoader(brokenModel(t)), workstate.WithStore(store))
	require.NoError(t, err)

	snap, err := ws.Snapshot(context.Background(), "v1")
	require.NoError(t, err)
	assert.False(t, snap.Valid)
	assert.Nil(t, snap.Graph)
	assert.Equal(t, "States [s:lost] not reachable from initial state", snap.Error)
}

func TestFileModel_WithConditions(t *testing.T) {
	dir := testutils.WriteModel(t, map[string]string{"doc.yaml": `
initial: draft
transitions:
  draft__done: {condition: is_ready}
events:
  finish: [draft__done]
`})

	ready := domain.ConditionFunc("is_ready", func(any) bool { return true })
	ws, err := workstate.New(dir, workstate.WithConditions(map[string]domain.Condition{"is_ready": ready}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), ws.Name)

	m, err := ws.Load(context.Background())
	require.NoError(t, err)
	require.True(t, m.Valid(), "model error: %v", m.Err)

	tr, ok := m.Engine.Registries().Transitions.Lookup("doc:draft__done")
	require.True(t, ok)
	assert.True(t, tr.Condition.Evaluate(nil))

	g, err := ws.Graph(context.Background())
	require.NoError(t, err)
	require.Len(t, g.Edges, 1)
	assert.True(t, g.Edges[0].Conditional)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, workstate.Version)
}

func TestExampleModel(t *testing.T) {
	ws, err := workstate.New("examples/models/quotes")
	require.NoError(t, err)

	m, err := ws.Load(context.Background())
	require.NoError(t, err)
	require.True(t, m.Valid(), "model error: %v", m.Err)
	assert.Equal(t, "quotes", m.Name)
	assert.Equal(t, []string{"quote", "doc"}, m.ScopeNames())
	assert.Equal(t, []string{
		"quote:draft", "quote:in_progress", "quote:ready", "quote:done", "quote:cancelled",
	}, m.OrderedStates()["quote"])

	g, err := m.Graph()
	require.NoError(t, err)
	var derived int
	for _, e := range g.Edges {
		if e.TriggerDerived {
			derived++
		}
	}
	assert.Zero(t, derived, "the only watched state is the source of the reject edge")
}
