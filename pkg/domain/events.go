package domain

// Event is a named occurrence that may fire one or more transitions.
// Event names are global: they are not scope-qualified.
type Event struct {
	Name string `json:"name" yaml:"name"`

	// Transitions holds canonical transition ids, possibly across scopes.
	Transitions []string `json:"transitions" yaml:"transitions"`
	// Triggers holds canonical trigger ids supplementing this event.
	Triggers []string `json:"triggers" yaml:"triggers"`

	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// Trigger states that Event may additionally be considered satisfied when
// entering any of States.
type Trigger struct {
	// Name is the canonical trigger id scope:name.
	Name  string `json:"name" yaml:"name"`
	Event string `json:"event" yaml:"event"`

	// States are watched state names as declared (bare or canonical).
	States []string `json:"states" yaml:"states"`

	Condition Condition `json:"-" yaml:"-"`

	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// Scope returns the scope part of the trigger id.
func (t *Trigger) Scope() string {
	scope, _ := SplitName(t.Name)
	return scope
}

// LocalName returns the trigger name without its scope.
func (t *Trigger) LocalName() string {
	_, local := SplitName(t.Name)
	return local
}
