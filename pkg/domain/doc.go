/*
Package domain contains the data model of a workstate finite-state-machine declaration.

It defines the entities that the registries store and cross-reference by
canonical name, the name syntax used to qualify them, and the single error
kind raised when a model is structurally unsound. The package has no
dependencies beyond the standard library.

# Key Entities

  - State: a node, identified as scope:state.
  - Transition: an edge, identified as scope:from__to; from may be the wildcard "*".
  - Event: a global name that fires one or more transitions.
  - Trigger: a rule supplementing an event when entering watched states.
  - Condition: an opaque predicate attached to transitions and triggers.
  - BrokenStateModelError: the failure reported by validation.
*/
package domain
