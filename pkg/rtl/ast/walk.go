package ast

// Walk traverses the template tree depth-first, calling fn for every node.
// If fn returns false the node's children are skipped.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		switch node := n.(type) {
		case *Conditional:
			Walk(node.Then, fn)
			Walk(node.Else, fn)
		case *Loop:
			Walk(node.Body, fn)
		}
	}
}

// VariablePaths collects every dotted path the template references:
// variable substitutions, conditional expressions, and loop sources.
// Loop bindings (this/@index/@key) are not included.
func VariablePaths(t *Template) []*PathRef {
	var refs []*PathRef
	Walk(t.Nodes, func(n Node) bool {
		switch node := n.(type) {
		case *VariableRef:
			refs = append(refs, &PathRef{Path: node.Path, Location: node.Location})
		case *Conditional:
			for _, p := range node.Condition.Paths() {
				refs = append(refs, &PathRef{Path: p, Location: node.Location})
			}
		case *Loop:
			refs = append(refs, &PathRef{Path: node.Source, Location: node.Location})
		}
		return true
	})
	return refs
}

// PathRef pairs a referenced variable path with where it appears.
type PathRef struct {
	Path     string
	Location Location
}

// MacroNames collects the names of every macro the template inserts.
func MacroNames(t *Template) []string {
	var names []string
	Walk(t.Nodes, func(n Node) bool {
		if m, ok := n.(*MacroRef); ok {
			names = append(names, m.Name)
		}
		return true
	})
	return names
}
