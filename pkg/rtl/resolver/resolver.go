package resolver

import "strings"

// Namespace is one of the fixed top-level variable groupings.
type Namespace string

const (
	NamespaceProject  Namespace = "project"
	NamespaceContent  Namespace = "content"
	NamespaceContext  Namespace = "context"
	NamespacePipeline Namespace = "pipeline"
	NamespaceDerived  Namespace = "derived"
	NamespaceMeta     Namespace = "meta"
	NamespaceUser     Namespace = "user"
)

// Namespaces lists every legal namespace in a stable order.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceProject,
		NamespaceContent,
		NamespaceContext,
		NamespacePipeline,
		NamespaceDerived,
		NamespaceMeta,
		NamespaceUser,
	}
}

// ValidNamespace reports whether name is one of the fixed namespaces.
func ValidNamespace(name string) bool {
	switch Namespace(name) {
	case NamespaceProject, NamespaceContent, NamespaceContext,
		NamespacePipeline, NamespaceDerived, NamespaceMeta, NamespaceUser:
		return true
	}
	return false
}

// Environment is the layered variable mapping a render call consumes:
// namespace -> leaf -> typed value. It is constructed fresh by the caller
// for every render and is read-only to the engine.
type Environment struct {
	layers map[Namespace]map[string]Value
}

// NewEnvironment creates an empty environment with all namespaces present.
func NewEnvironment() *Environment {
	layers := make(map[Namespace]map[string]Value, len(Namespaces()))
	for _, ns := range Namespaces() {
		layers[ns] = make(map[string]Value)
	}
	return &Environment{layers: layers}
}

// Set stores a value under namespace.leaf. Unknown namespaces are ignored;
// paths are always fully qualified at lookup time.
func (e *Environment) Set(ns Namespace, leaf string, v Value) {
	layer, ok := e.layers[ns]
	if !ok {
		return
	}
	layer[leaf] = v
}

// Leaves returns the leaf names defined under a namespace.
func (e *Environment) Leaves(ns Namespace) []string {
	layer := e.layers[ns]
	names := make([]string, 0, len(layer))
	for name := range layer {
		names = append(names, name)
	}
	return names
}

// Resolve looks up a dotted path ("namespace.leaf", optionally
// "namespace.leaf.subkey..." descending into mapping-typed leaves) and
// returns the value and whether it was found. Matching is exact and
// case sensitive; an unknown namespace or leaf resolves as not found,
// which is never an error by itself.
func (e *Environment) Resolve(path string) (Value, bool) {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return Value{}, false
	}

	layer, ok := e.layers[Namespace(parts[0])]
	if !ok {
		return Value{}, false
	}

	v, ok := layer[parts[1]]
	if !ok {
		return Value{}, false
	}

	// Descend into mapping leaves for any remaining segments.
	for _, key := range parts[2:] {
		v, ok = v.Lookup(key)
		if !ok {
			return Value{}, false
		}
	}
	return v, true
}
