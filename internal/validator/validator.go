// Package validator reports model smells that do not make a model unsound
// but usually point at a mistake in the declarations.
package validator

import (
	"fmt"
	"strings"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/registry"
)

// Severity of a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule names.
const (
	RuleUnboundCondition = "unbound-condition"
	RuleUnresolvedWatch  = "unresolved-watch"
	RuleUndocumented     = "undocumented-event"
	RuleTerminalState    = "terminal-state"
)

// Finding is one lint result.
type Finding struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] %s", f.Severity, f.Rule, f.Message)
}

// Lint inspects a set of registries, typically an engine's merged view so
// cross-scope references resolve.
func Lint(set *registry.Set) []Finding {
	var out []Finding

	for _, t := range set.Transitions.All() {
		if _, ok := t.Condition.(domain.NamedCondition); ok {
			out = append(out, Finding{
				Severity: SeverityWarning,
				Rule:     RuleUnboundCondition,
				Subject:  t.ID(),
				Message:  fmt.Sprintf("Transition %s uses condition %s which is not bound to a predicate", t.ID(), t.Condition.Name()),
			})
		}
	}

	for _, tr := range set.Triggers.All() {
		if _, ok := tr.Condition.(domain.NamedCondition); ok {
			out = append(out, Finding{
				Severity: SeverityWarning,
				Rule:     RuleUnboundCondition,
				Subject:  tr.Name,
				Message:  fmt.Sprintf("Trigger %s uses condition %s which is not bound to a predicate", tr.Name, tr.Condition.Name()),
			})
		}
		for _, watched := range tr.States {
			id := domain.Resolve(watched, tr.Scope(), "")
			if _, ok := set.States.Lookup(id); !ok {
				out = append(out, Finding{
					Severity: SeverityWarning,
					Rule:     RuleUnresolvedWatch,
					Subject:  tr.Name,
					Message:  fmt.Sprintf("Trigger %s watches unknown state %s", tr.Name, id),
				})
			}
		}
	}

	for _, ev := range set.Events.All() {
		if ev.Doc == "" {
			out = append(out, Finding{
				Severity: SeverityInfo,
				Rule:     RuleUndocumented,
				Subject:  ev.Name,
				Message:  fmt.Sprintf("Event %s has no description", ev.Name),
			})
		}
	}

	for _, st := range set.States.All() {
		if len(st.DestEdges) == 0 && !hasWildcardExit(set, st.Scope) {
			out = append(out, Finding{
				Severity: SeverityInfo,
				Rule:     RuleTerminalState,
				Subject:  st.ID(),
				Message:  fmt.Sprintf("State %s has no outgoing transitions", st.ID()),
			})
		}
	}
	return out
}

func hasWildcardExit(set *registry.Set, scope string) bool {
	for _, t := range set.Transitions.All() {
		if t.Scope == scope && t.IsWildcard() {
			return true
		}
	}
	return false
}

// Warnings filters findings down to warnings.
func Warnings(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

// Check turns warnings into a single error, or nil when there are none.
func Check(findings []Finding) error {
	warnings := Warnings(findings)
	if len(warnings) == 0 {
		return nil
	}
	msgs := make([]string, len(warnings))
	for i, f := range warnings {
		msgs[i] = f.Message
	}
	return fmt.Errorf("found %d warnings:\n- %s", len(warnings), strings.Join(msgs, "\n- "))
}
