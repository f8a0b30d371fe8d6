package dsl_test

import (
	"fmt"

	"github.com/grigi/workstate/pkg/dsl"
)

func ExampleBuilder() {
	b := dsl.New("Ticket").Initial("open")
	b.Event("start", "open__in_progress")
	b.Event("finish", "in_progress__done")
	b.Event("reopen", "__open")

	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	fmt.Println(s.Validate())
	fmt.Println(s.OrderStates())
	// Output:
	// <nil>
	// [ticket:open ticket:in_progress ticket:done]
}
