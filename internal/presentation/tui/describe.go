package tui

import (
	"fmt"
	"strings"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/scope"
)

// Describe renders a markdown reference of the given scopes. It works on
// each scope's own registries, so it also documents models that fail
// validation.
func Describe(title string, scopes []*scope.Scope) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	for _, s := range scopes {
		describeScope(&sb, s)
	}
	return sb.String()
}

func describeScope(sb *strings.Builder, s *scope.Scope) {
	set := s.Registries()
	events := s.EventMap()

	fmt.Fprintf(sb, "## %s\n\n", domain.Pretty(s.Name()))
	if s.Initial() != "" {
		fmt.Fprintf(sb, "Initial state: **%s**\n\n", domain.Pretty(s.Initial()))
	}
	if err := s.Validate(); err != nil {
		fmt.Fprintf(sb, "> **Broken:** %s\n\n", err)
	}

	sb.WriteString("### States\n\n")
	sb.WriteString("| State | Id | Description |\n|---|---|---|\n")
	for _, id := range s.OrderStates() {
		st, ok := set.States.Lookup(id)
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "| %s | `%s` | %s |\n", domain.Pretty(st.Name), id, cell(st.Doc))
	}
	sb.WriteString("\n")

	if set.Transitions.Len() > 0 {
		sb.WriteString("### Transitions\n\n")
		sb.WriteString("| From | To | Events | Condition | Description |\n|---|---|---|---|---|\n")
		for _, t := range set.Transitions.All() {
			from := domain.Pretty(t.From)
			if t.IsWildcard() {
				from = "Any"
			}
			evs := events.Events(t.ID())
			evCell := "_none_"
			if len(evs) > 0 {
				evCell = strings.Join(evs, ", ")
			}
			cond := ""
			if t.Conditional() {
				cond = "`" + t.Condition.Name() + "`"
			}
			fmt.Fprintf(sb, "| %s | %s | %s | %s | %s |\n", from, domain.Pretty(t.To), evCell, cond, cell(t.Doc))
		}
		sb.WriteString("\n")
	}

	if set.Events.Len() > 0 {
		sb.WriteString("### Events\n\n")
		for _, ev := range set.Events.All() {
			fmt.Fprintf(sb, "- **%s** (`%s`)", domain.Pretty(ev.Name), ev.Name)
			if ev.Doc != "" {
				fmt.Fprintf(sb, ": %s", ev.Doc)
			}
			if len(ev.Triggers) > 0 {
				fmt.Fprintf(sb, " _triggered by %s_", strings.Join(ev.Triggers, ", "))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if set.Triggers.Len() > 0 {
		sb.WriteString("### Triggers\n\n")
		for _, tr := range set.Triggers.All() {
			fmt.Fprintf(sb, "- **%s** on `%s` watching %s", tr.LocalName(), tr.Event, strings.Join(tr.States, ", "))
			if tr.Doc != "" {
				fmt.Fprintf(sb, ": %s", tr.Doc)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
}

// cell keeps a doc string inside one markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
