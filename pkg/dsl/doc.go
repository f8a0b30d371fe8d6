/*
Package dsl provides a fluent builder for declaring workstate scopes in Go.

It produces the same scope.Definition that definition files are decoded
into, so a scope built in code and one loaded from YAML validate and
render identically. Conditions are plain Go functions wrapped with
domain.ConditionFunc.

Example usage:

	package main

	import (
		"github.com/grigi/workstate/pkg/domain"
		"github.com/grigi/workstate/pkg/dsl"
	)

	func main() {
		b := dsl.New("doc").Initial("draft")

		b.State("draft", "Being edited")
		b.Transition("proposed__approved").
			Doc("Needs marking").
			When(domain.ConditionFunc("is_marked", isMarked))

		b.Event("propose", "draft__proposed")
		b.Event("approve", "proposed__approved")
		b.Event("reset", "__draft")

		b.Trigger("check_complete").On("approve").Watch("proposed")

		s, err := b.Build()
		// ... validate s, or pass it to engine.New
	}
*/
package dsl
