package workstate_test

import (
	"context"
	"fmt"
	"log"

	"github.com/grigi/workstate"
	"github.com/grigi/workstate/pkg/adapters/memory"
	"github.com/grigi/workstate/pkg/dsl"
)

// ExampleNew_memory validates a two-scope model declared in Go.
func ExampleNew_memory() {
	order := dsl.New("order").Initial("placed")
	order.Event("pay", "placed__paid")
	order.Event("ship", "paid__shipped")

	invoice := dsl.New("invoice").Initial("pending")
	invoice.Event("pay", "pending__settled")

	loader, err := memory.NewFromBuilders("shop", order, invoice)
	if err != nil {
		log.Fatal(err)
	}

	ws, err := workstate.New("", workstate.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	m, err := ws.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m.Valid(), m.ScopeNames())

	ev, _ := m.Engine.Registries().Events.Lookup("pay")
	fmt.Println(ev.Transitions)
	// Output:
	// true [order invoice]
	// [order:placed__paid invoice:pending__settled]
}
