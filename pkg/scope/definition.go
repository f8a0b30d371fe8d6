package scope

import "github.com/grigi/workstate/pkg/domain"

// Definition collects the declarations of one scope. Slices keep
// declaration order, which makes every derived ordering deterministic.
type Definition struct {
	// Name is the scope name; it is lower-cased by Build.
	Name    string `json:"scope" yaml:"scope" mapstructure:"scope"`
	Initial string `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`

	States      []StateDecl      `json:"states,omitempty" yaml:"states,omitempty" mapstructure:"states"`
	Transitions []TransitionDecl `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
	Events      []EventDecl      `json:"events,omitempty" yaml:"events,omitempty" mapstructure:"events"`
	Triggers    []TriggerDecl    `json:"triggers,omitempty" yaml:"triggers,omitempty" mapstructure:"triggers"`
}

// StateDecl declares a state and its documentation.
type StateDecl struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
}

// TransitionDecl declares an edge by short name "from__to".
type TransitionDecl struct {
	Name      string           `json:"name" yaml:"name" mapstructure:"name"`
	Doc       string           `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
	Condition domain.Condition `json:"-" yaml:"-" mapstructure:"-"`
}

// EventDecl declares an event and the transitions it fires.
type EventDecl struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Transitions []string `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
	Doc         string   `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
}

// TriggerDecl declares a trigger watching States for Event.
type TriggerDecl struct {
	Name      string           `json:"name" yaml:"name" mapstructure:"name"`
	Event     string           `json:"event" yaml:"event" mapstructure:"event"`
	States    []string         `json:"states" yaml:"states" mapstructure:"states"`
	Condition domain.Condition `json:"-" yaml:"-" mapstructure:"-"`
	Doc       string           `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
}
