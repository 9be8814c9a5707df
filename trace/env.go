package trace

import (
	"regionc/ast"
	"regionc/report"
)

// Env is a lexical scope: a set of bindings and the scope enclosing it.
// Conditionals do not introduce scopes: every binding made within a function
// body lives in the function's scope.
type Env struct {
	parent *Env
	vars   map[string]interface{}
}

// NewEnv creates a new empty scope enclosed by parent.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]interface{})}
}

// Lookup finds the value bound to name in this scope or any enclosing scope.
func (e *Env) Lookup(name string) (interface{}, bool) {
	for curr := e; curr != nil; curr = curr.parent {
		if v, ok := curr.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Set binds name to v in this scope.
func (e *Env) Set(name string, v interface{}) {
	e.vars[name] = v
}

// Names returns the names bound directly in this scope.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}

	return names
}

// -----------------------------------------------------------------------------

// NewGlobals creates the global scope of a file: its top-level assignments are
// evaluated in order and every function it defines is bound by name.  The
// builtins enclose the global scope.
func NewGlobals(f *ast.File) (*Env, error) {
	globals := NewEnv(builtinEnv())

	t := &Tracer{}
	for _, assign := range f.Globals {
		if err := t.execAssign(globals, assign); err != nil {
			return nil, report.Wrap(assign.Span(), err)
		}
	}

	for _, def := range f.Defs {
		fn, err := NewFunction(def, globals)
		if err != nil {
			return nil, err
		}

		globals.Set(def.Name, fn)
	}

	return globals, nil
}
