package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/parser"
	"rosetta-hq/rosetta/pkg/rtl/resolver"
	"rosetta-hq/rosetta/pkg/rtl/schema"
)

// DefaultMaxMacroDepth bounds recursive macro expansion. The limit is a
// deliberate conservative constant: exceeding it aborts the render with a
// deterministic macro error instead of exhausting the host stack.
const DefaultMaxMacroDepth = 8

// Evaluator walks a parsed template and produces output text. Evaluation is
// a pure function of (tree, environment): the evaluator holds only
// configuration, so one instance may render concurrently.
type Evaluator struct {
	stage         schema.Stage
	macros        map[string]string
	maxMacroDepth int
}

// New creates an evaluator for the given stage with the built-in default
// macro table.
func New(stage schema.Stage) *Evaluator {
	return &Evaluator{
		stage:         stage,
		macros:        schema.DefaultMacros(),
		maxMacroDepth: DefaultMaxMacroDepth,
	}
}

// WithMacros overlays user-defined macros on the defaults. User macros
// shadow built-ins of the same name in every stage.
func (e *Evaluator) WithMacros(user map[string]string) *Evaluator {
	for name, body := range user {
		e.macros[name] = body
	}
	return e
}

// WithMaxMacroDepth sets the macro expansion depth bound.
func (e *Evaluator) WithMaxMacroDepth(depth int) *Evaluator {
	if depth > 0 {
		e.maxMacroDepth = depth
	}
	return e
}

// binding is one level of loop scope: {{this}}, {{@index}}, {{@key}}
// resolve against the innermost binding, shadowing outer levels.
type binding struct {
	this  resolver.Value
	index int
	key   string
	isMap bool
}

// renderState is the per-render mutable state. It lives on the call stack
// of a single Evaluate invocation; the evaluator itself stays immutable.
type renderState struct {
	env       *resolver.Environment
	out       strings.Builder
	diags     *rtlErrors.List
	bindings  []binding
	expanding []string // Macro names on the expansion stack, for cycle detection
}

// fatalError aborts a render: macro cycles and excessive recursion return
// no text alongside their error diagnostics.
type fatalError struct{ diag *rtlErrors.Diagnostic }

func (f *fatalError) Error() string { return f.diag.Message }

// Evaluate renders the template against the environment. The diagnostic
// list carries every warning encountered; on a fatal macro error the
// rendered text is empty and the list contains an error-severity
// diagnostic.
func (e *Evaluator) Evaluate(t *ast.Template, env *resolver.Environment) (string, *rtlErrors.List) {
	st := &renderState{
		env:   env,
		diags: rtlErrors.NewList(),
	}

	if err := e.evalNodes(st, t.Nodes, 0); err != nil {
		if f, ok := err.(*fatalError); ok {
			st.diags.Add(f.diag)
		}
		return "", st.diags
	}
	return st.out.String(), st.diags
}

// evalNodes renders a node list in order. depth counts macro expansion
// levels, not block nesting.
func (e *Evaluator) evalNodes(st *renderState, nodes []ast.Node, depth int) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case *ast.Text:
			st.out.WriteString(node.Content)

		case *ast.VariableRef:
			e.evalVariable(st, node)

		case *ast.LoopBinding:
			e.evalBinding(st, node)

		case *ast.Conditional:
			branch := node.Then
			if e.truthy(st, node.Condition, node.Location) == node.Negated {
				branch = node.Else
			}
			if branch != nil {
				if err := e.evalNodes(st, branch, depth); err != nil {
					return err
				}
			}

		case *ast.Loop:
			if err := e.evalLoop(st, node, depth); err != nil {
				return err
			}

		case *ast.MacroRef:
			if err := e.evalMacro(st, node, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// evalVariable substitutes one variable reference: alias rewrite, resolve,
// presence check, formatter or default fallback.
func (e *Evaluator) evalVariable(st *renderState, node *ast.VariableRef) {
	path := e.rewriteAlias(st, node.Path, node.Location)

	v, found := st.env.Resolve(path)
	if found && v.Present() {
		st.out.WriteString(applyFormatter(v, node.Formatter, path, node.Location, st.diags))
		return
	}

	if node.HasDefault {
		st.out.WriteString(node.Default)
		return
	}

	if !found {
		st.diags.AddWarning(rtlErrors.CategoryResolution,
			fmt.Sprintf("variable %q is not defined in the environment; substituting empty text", path),
			node.Location)
	}
	// Missing optional variables degrade to empty output.
}

// evalBinding substitutes a loop-scoped reference from the innermost
// enclosing each body.
func (e *Evaluator) evalBinding(st *renderState, node *ast.LoopBinding) {
	if len(st.bindings) == 0 {
		st.diags.AddWarning(rtlErrors.CategoryResolution,
			fmt.Sprintf("%s used outside an each block; substituting empty text", node.Name),
			node.Location)
		return
	}
	b := st.bindings[len(st.bindings)-1]

	switch node.Name {
	case "@index":
		st.out.WriteString(strconv.Itoa(b.index))
	case "@key":
		if !b.isMap {
			st.diags.AddWarning(rtlErrors.CategoryResolution,
				"@key used in a sequence loop; substituting empty text", node.Location)
			return
		}
		st.out.WriteString(b.key)
	case "this":
		v := b.this
		if node.SubPath != "" {
			var ok bool
			for _, seg := range strings.Split(node.SubPath, ".") {
				v, ok = v.Lookup(seg)
				if !ok {
					return
				}
			}
		}
		st.out.WriteString(v.Stringify())
	}
}

// evalLoop iterates a sequence (binding this/@index) or an ordered mapping
// (binding this/@key). An absent or empty source renders zero iterations.
func (e *Evaluator) evalLoop(st *renderState, node *ast.Loop, depth int) error {
	path := e.rewriteAlias(st, node.Source, node.Location)

	v, found := st.env.Resolve(path)
	if !found {
		return nil
	}

	switch v.Kind() {
	case resolver.KindSequence:
		for i, elem := range v.Seq() {
			st.bindings = append(st.bindings, binding{this: elem, index: i})
			err := e.evalNodes(st, node.Body, depth)
			st.bindings = st.bindings[:len(st.bindings)-1]
			if err != nil {
				return err
			}
		}
	case resolver.KindMapping:
		for _, entry := range v.Entries() {
			st.bindings = append(st.bindings, binding{this: entry.Value, key: entry.Key, isMap: true})
			err := e.evalNodes(st, node.Body, depth)
			st.bindings = st.bindings[:len(st.bindings)-1]
			if err != nil {
				return err
			}
		}
	default:
		st.diags.AddWarning(rtlErrors.CategoryResolution,
			fmt.Sprintf("each source %q is not a sequence or mapping; rendering zero iterations", path),
			node.Location)
	}
	return nil
}

// evalMacro expands a named macro body as a sub-template against the same
// environment. Cycles and expansions beyond the depth bound are fatal.
func (e *Evaluator) evalMacro(st *renderState, node *ast.MacroRef, depth int) error {
	body, ok := e.macros[node.Name]
	if !ok {
		st.diags.AddWarning(rtlErrors.CategoryResolution,
			fmt.Sprintf("macro %q is not defined; substituting empty text", node.Name),
			node.Location)
		return nil
	}

	for _, name := range st.expanding {
		if name == node.Name {
			return &fatalError{diag: &rtlErrors.Diagnostic{
				Category: rtlErrors.CategoryMacro,
				Severity: rtlErrors.SeverityError,
				Message: fmt.Sprintf("macro cycle: %q expands itself (chain: %s)",
					node.Name, strings.Join(append(st.expanding, node.Name), " -> ")),
				Location: node.Location,
			}}
		}
	}
	if depth+1 > e.maxMacroDepth {
		return &fatalError{diag: &rtlErrors.Diagnostic{
			Category: rtlErrors.CategoryMacro,
			Severity: rtlErrors.SeverityError,
			Message: fmt.Sprintf("macro cycle or excessive recursion: expanding %q exceeds depth %d",
				node.Name, e.maxMacroDepth),
			Location: node.Location,
		}}
	}

	sub, parseDiags := parser.NewParser().Parse(body)
	st.diags.Merge(parseDiags)
	if sub == nil {
		// A macro body that fails to parse is a structural error already
		// recorded; emit nothing for the reference.
		return &fatalError{diag: &rtlErrors.Diagnostic{
			Category: rtlErrors.CategoryMacro,
			Severity: rtlErrors.SeverityError,
			Message:  fmt.Sprintf("macro %q has a malformed body", node.Name),
			Location: node.Location,
		}}
	}

	st.expanding = append(st.expanding, node.Name)
	err := e.evalNodes(st, sub.Nodes, depth+1)
	st.expanding = st.expanding[:len(st.expanding)-1]
	return err
}

// truthy evaluates a conditional expression: a bare path is truthy when it
// resolves to a present value; && requires both, || at least one. loc is the
// conditional's tag location, attributed to any alias rewrite the paths need.
func (e *Evaluator) truthy(st *renderState, cond ast.CondExpr, loc ast.Location) bool {
	switch cond.Op {
	case ast.CondAnd:
		return e.pathTruthy(st, cond.Left, loc) && e.pathTruthy(st, cond.Right, loc)
	case ast.CondOr:
		return e.pathTruthy(st, cond.Left, loc) || e.pathTruthy(st, cond.Right, loc)
	default:
		return e.pathTruthy(st, cond.Left, loc)
	}
}

// pathTruthy tests a single path, honoring loop bindings for "this".
func (e *Evaluator) pathTruthy(st *renderState, path string, loc ast.Location) bool {
	if (path == "this" || strings.HasPrefix(path, "this.")) && len(st.bindings) > 0 {
		v := st.bindings[len(st.bindings)-1].this
		if strings.HasPrefix(path, "this.") {
			var ok bool
			for _, seg := range strings.Split(strings.TrimPrefix(path, "this."), ".") {
				v, ok = v.Lookup(seg)
				if !ok {
					return false
				}
			}
		}
		return v.Present()
	}

	canonical := e.rewriteAlias(st, path, loc)
	v, found := st.env.Resolve(canonical)
	return found && v.Present()
}

// rewriteAlias maps a deprecated unqualified name to its canonical path for
// the active stage, recording a low-severity diagnostic on rewrite.
func (e *Evaluator) rewriteAlias(st *renderState, path string, loc ast.Location) string {
	canonical, rewritten := schema.ResolveAlias(path, e.stage)
	if rewritten {
		st.diags.AddWithSuggestion(rtlErrors.CategoryStage, rtlErrors.SeverityWarning,
			fmt.Sprintf("deprecated alias %q used", path), loc,
			fmt.Sprintf("use {{%s}} instead", canonical))
	}
	return canonical
}
