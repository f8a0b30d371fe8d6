package domain

// Transition is a directed edge scope:from__to.
// From is Wildcard for transitions that leave any state of the scope.
type Transition struct {
	Scope string `json:"scope" yaml:"scope"`
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`

	// Condition is optional; its presence marks the edge as conditional.
	Condition Condition `json:"-" yaml:"-"`

	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// ID returns the canonical edge id.
func (t *Transition) ID() string {
	return EdgeName(t.Scope, t.From, t.To)
}

// IsWildcard reports whether the transition has no single source state.
func (t *Transition) IsWildcard() bool {
	return t.From == Wildcard
}

// Conditional reports whether a condition is attached.
func (t *Transition) Conditional() bool {
	return t.Condition != nil
}

// FromID returns the canonical from-state, or scope:* for wildcard edges.
func (t *Transition) FromID() string {
	return Canonical(t.Scope, t.From)
}

// ToID returns the canonical to-state.
func (t *Transition) ToID() string {
	return Canonical(t.Scope, t.To)
}
