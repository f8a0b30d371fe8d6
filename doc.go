/*
Package workstate is a toolkit for declaring and checking finite state
models before they are run.

A model is made of scopes. Each scope declares states, transitions between
them (named from__to, with an empty from meaning "any state"), events that
fire transitions and triggers that watch states on behalf of an event.
Names are resolved to the canonical form scope:name, so several scopes can
refer to each other's states and transitions.

An engine merges a list of scopes and checks that the combined model is
sound: every transition can be fired by some event, no event is empty and
every state is reachable from its scope's initial state. Sound models can
be exported as a graph and rendered to DOT, Mermaid, JSON or images.

# Usage

Definitions are usually read from a directory of YAML files:

	ws, err := workstate.New("./model")
	if err != nil {
		log.Fatal(err)
	}

	if err := ws.Validate(ctx); err != nil {
		log.Fatalf("model is broken: %v", err)
	}

	g, err := ws.Graph(ctx)

Models can also be declared in Go with the dsl package and served through
memory.NewFromBuilders.
*/
package workstate
