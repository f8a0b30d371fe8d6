package domain

// Condition is an opaque predicate attached to a transition or trigger.
// Validation only observes whether one is present; Evaluate is offered to
// hosts that execute the model themselves.
type Condition interface {
	Name() string
	Evaluate(ctx any) bool
}

type funcCondition struct {
	name string
	fn   func(ctx any) bool
}

func (c funcCondition) Name() string { return c.name }

func (c funcCondition) Evaluate(ctx any) bool { return c.fn(ctx) }

// ConditionFunc adapts a Go function into a named Condition.
func ConditionFunc(name string, fn func(ctx any) bool) Condition {
	return funcCondition{name: name, fn: fn}
}

// NamedCondition is a placeholder for conditions declared by name only,
// such as those read from definition files. It always evaluates to false.
type NamedCondition string

func (c NamedCondition) Name() string { return string(c) }

func (c NamedCondition) Evaluate(any) bool { return false }
