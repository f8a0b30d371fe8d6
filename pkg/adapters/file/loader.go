// Package file reads scope definitions from YAML or JSON files and keeps
// model snapshots as JSON files.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/ports"
	"github.com/grigi/workstate/pkg/scope"
)

// ManifestNames are the file names recognized as engine manifests.
var ManifestNames = []string{"engine.yaml", "engine.yml"}

var definitionExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// Loader implements ports.ModelLoader over a directory of definition files.
type Loader struct {
	dir        string
	conditions map[string]domain.Condition
}

// Option configures a Loader.
type Option func(*Loader)

// WithConditions binds condition names used in files to predicates.
// Unbound names load as domain.NamedCondition.
func WithConditions(conditions map[string]domain.Condition) Option {
	return func(l *Loader) {
		for name, c := range conditions {
			l.conditions[name] = c
		}
	}
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:        dir,
		conditions: make(map[string]domain.Condition),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadModel loads the loader's directory.
func (l *Loader) LoadModel(ctx context.Context) (*ports.Model, error) {
	return l.LoadDir(ctx, l.dir)
}

// LoadDir loads the engine manifest in dir if there is one, otherwise every
// definition file in dir in lexical order.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*ports.Model, error) {
	for _, name := range ManifestNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return l.LoadManifest(ctx, path)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read model directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	model := &ports.Model{Name: filepath.Base(abs)}

	for _, entry := range entries {
		if entry.IsDir() || !definitionExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		def, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		model.Definitions = append(model.Definitions, def)
	}
	return model, nil
}

// LoadManifest loads the scopes listed by an engine manifest, resolving
// file names relative to the manifest.
func (l *Loader) LoadManifest(ctx context.Context, path string) (*ports.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		m.Name = filepath.Base(abs)
	}

	model := &ports.Model{Name: m.Name}
	base := filepath.Dir(path)
	for _, file := range m.Scopes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		def, err := l.LoadFile(file)
		if err != nil {
			return nil, err
		}
		model.Definitions = append(model.Definitions, def)
	}
	return model, nil
}

// LoadFile reads one definition file. The scope name defaults to the file
// base name.
func (l *Loader) LoadFile(path string) (scope.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scope.Definition{}, fmt.Errorf("failed to read definition: %w", err)
	}

	base := filepath.Base(path)
	def, err := l.Parse(data, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return scope.Definition{}, fmt.Errorf("%s: %w", base, err)
	}
	return def, nil
}

// Parse decodes a definition document.
func (l *Loader) Parse(data []byte, defaultName string) (scope.Definition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return scope.Definition{}, domain.MalformedDeclaration(defaultName, "invalid definition: %v", err)
	}

	def := scope.Definition{Name: defaultName}
	root := documentRoot(&doc)
	if root == nil {
		return def, nil
	}
	if root.Kind != yaml.MappingNode {
		return def, domain.MalformedDeclaration(defaultName, "definition must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		var err error
		switch key {
		case "scope":
			def.Name = val.Value
		case "initial":
			def.Initial = val.Value
		case "states":
			def.States, err = parseStates(val, def.Name)
		case "transitions":
			def.Transitions, err = l.parseTransitions(val, def.Name)
		case "events":
			def.Events, err = parseEvents(val, def.Name)
		case "triggers":
			def.Triggers, err = l.parseTriggers(val, def.Name)
		default:
			err = domain.MalformedDeclaration(def.Name, "unknown key %q at line %d", key, root.Content[i].Line)
		}
		if err != nil {
			return def, err
		}
	}
	return def, nil
}

func (l *Loader) condition(name string) domain.Condition {
	if c, ok := l.conditions[name]; ok {
		return c
	}
	return domain.NamedCondition(name)
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	if doc.Kind == 0 {
		return nil
	}
	return doc
}

// pairs walks a mapping node in document order.
func pairs(n *yaml.Node, scopeName, section string, fn func(key string, val *yaml.Node) error) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return domain.MalformedDeclaration(scopeName, "%s need to be a mapping (line %d)", section, n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func parseStates(n *yaml.Node, scopeName string) ([]scope.StateDecl, error) {
	var out []scope.StateDecl
	err := pairs(n, scopeName, "states", func(key string, val *yaml.Node) error {
		if val.Kind != yaml.ScalarNode {
			return domain.MalformedDeclaration(scopeName, "state %s doc must be a string", key)
		}
		doc := val.Value
		if val.Tag == "!!null" {
			doc = ""
		}
		out = append(out, scope.StateDecl{Name: key, Doc: doc})
		return nil
	})
	return out, err
}

type transitionSpec struct {
	Doc       string `mapstructure:"doc"`
	Condition string `mapstructure:"condition"`
}

func (l *Loader) parseTransitions(n *yaml.Node, scopeName string) ([]scope.TransitionDecl, error) {
	var out []scope.TransitionDecl
	err := pairs(n, scopeName, "transitions", func(key string, val *yaml.Node) error {
		decl := scope.TransitionDecl{Name: key}
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag != "!!null" {
				decl.Doc = val.Value
			}
		case yaml.MappingNode:
			var spec transitionSpec
			if err := decodeMapping(val, &spec); err != nil {
				return domain.MalformedDeclaration(scopeName, "transition %s: %v", key, err)
			}
			decl.Doc = spec.Doc
			if spec.Condition != "" {
				decl.Condition = l.condition(spec.Condition)
			}
		default:
			return domain.MalformedDeclaration(scopeName, "transition %s needs a doc string or {doc, condition}", key)
		}
		out = append(out, decl)
		return nil
	})
	return out, err
}

type eventSpec struct {
	Transitions []string `mapstructure:"transitions"`
	Doc         string   `mapstructure:"doc"`
}

func parseEvents(n *yaml.Node, scopeName string) ([]scope.EventDecl, error) {
	var out []scope.EventDecl
	err := pairs(n, scopeName, "events", func(key string, val *yaml.Node) error {
		decl, ok := parseEvent(val)
		if !ok {
			return domain.MalformedDeclaration(scopeName,
				"Events need to be one of: [transitions], [[transitions], doc] or {transitions, doc} (event %s)", key)
		}
		decl.Name = key
		out = append(out, decl)
		return nil
	})
	return out, err
}

func parseEvent(val *yaml.Node) (scope.EventDecl, bool) {
	switch val.Kind {
	case yaml.SequenceNode:
		if transitions, ok := scalars(val); ok {
			return scope.EventDecl{Transitions: transitions}, true
		}
		// A pair of a transition list and a doc string, in either order.
		if len(val.Content) != 2 {
			return scope.EventDecl{}, false
		}
		var decl scope.EventDecl
		var haveList, haveDoc bool
		for _, item := range val.Content {
			switch item.Kind {
			case yaml.SequenceNode:
				transitions, ok := scalars(item)
				if !ok || haveList {
					return scope.EventDecl{}, false
				}
				decl.Transitions, haveList = transitions, true
			case yaml.ScalarNode:
				if haveDoc {
					return scope.EventDecl{}, false
				}
				decl.Doc, haveDoc = item.Value, true
			default:
				return scope.EventDecl{}, false
			}
		}
		return decl, haveList && haveDoc
	case yaml.MappingNode:
		var spec eventSpec
		if err := decodeMapping(val, &spec); err != nil {
			return scope.EventDecl{}, false
		}
		return scope.EventDecl{Transitions: spec.Transitions, Doc: spec.Doc}, true
	}
	return scope.EventDecl{}, false
}

type triggerSpec struct {
	Name      string   `mapstructure:"name"`
	Event     string   `mapstructure:"event"`
	States    []string `mapstructure:"states"`
	Condition string   `mapstructure:"condition"`
	Doc       string   `mapstructure:"doc"`
}

func (l *Loader) parseTriggers(n *yaml.Node, scopeName string) ([]scope.TriggerDecl, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, domain.MalformedDeclaration(scopeName, "triggers need to be a list (line %d)", n.Line)
	}

	var out []scope.TriggerDecl
	for _, item := range n.Content {
		var spec triggerSpec
		if item.Kind != yaml.MappingNode {
			return nil, domain.MalformedDeclaration(scopeName, "trigger at line %d must be a mapping", item.Line)
		}
		if err := decodeMapping(item, &spec); err != nil {
			return nil, domain.MalformedDeclaration(scopeName, "trigger at line %d: %v", item.Line, err)
		}
		// The trigger is its own condition unless one is named.
		cond := spec.Condition
		if cond == "" {
			cond = spec.Name
		}
		out = append(out, scope.TriggerDecl{
			Name:      spec.Name,
			Event:     spec.Event,
			States:    spec.States,
			Condition: l.condition(cond),
			Doc:       spec.Doc,
		})
	}
	return out, nil
}

func scalars(n *yaml.Node) ([]string, bool) {
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, false
		}
		out = append(out, item.Value)
	}
	return out, true
}

// decodeMapping decodes a mapping node into a tagged struct, rejecting
// unknown keys.
func decodeMapping(n *yaml.Node, out any) error {
	var raw map[string]any
	if err := n.Decode(&raw); err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Manifest lists the member scope files of an engine.
type Manifest struct {
	Name   string
	Scopes []string
}

// ParseManifest decodes an engine manifest. A missing or non-list scopes
// key is a MALFORMED_ENGINE error.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, domain.MalformedEngine(err.Error())
	}

	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, domain.MalformedEngine("manifest must be a mapping")
	}

	m := &Manifest{}
	found := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch key {
		case "name":
			m.Name = val.Value
		case "scopes":
			found = true
			if val.Kind != yaml.SequenceNode {
				return nil, domain.MalformedEngine("scopes is not a list")
			}
			files, ok := scalars(val)
			if !ok {
				return nil, domain.MalformedEngine("scopes must list definition files")
			}
			m.Scopes = files
		}
	}
	if !found || len(m.Scopes) == 0 {
		return nil, domain.MalformedEngine("no scopes listed")
	}
	return m, nil
}
