package lower

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"regionc/ast"
)

// DefaultHandlePrefix is the prefix of the names minted for handles.
const DefaultHandlePrefix = "__branch__"

// Pass is a single lowering pass: a total rewrite of a function definition.
// Passes may modify the tree they are given in place.
type Pass interface {
	// Name returns the name the pass is selected by.
	Name() string

	// Apply rewrites a function definition.
	Apply(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error)
}

// pass is a Pass implemented by a function.
type pass struct {
	name  string
	apply func(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error)
}

func (p *pass) Name() string {
	return p.name
}

func (p *pass) Apply(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	return p.apply(fn, ctx)
}

// -----------------------------------------------------------------------------

// Context is the state shared by the passes of a single pipeline run.
type Context struct {
	namer *Namer

	log *zap.Logger
}

// NewContext creates a new pass context minting handle names with the given
// prefix.
func NewContext(prefix string) *Context {
	return &Context{namer: NewNamer(prefix), log: Logger()}
}

// Fresh mints a new handle name.
func (ctx *Context) Fresh() string {
	name := ctx.namer.Fresh()
	ctx.log.Debug("minted handle", zap.String("handle", name))
	return name
}

// Namer mints unique handle names: a prefix followed by a counter.
type Namer struct {
	prefix string
	next   int
}

// NewNamer creates a new namer whose first name ends in 1.
func NewNamer(prefix string) *Namer {
	return &Namer{prefix: prefix, next: 1}
}

// Fresh returns the next name.
func (n *Namer) Fresh() string {
	name := n.prefix + strconv.Itoa(n.next)
	n.next++
	return name
}

// Minted returns whether name has the form of a minted name: the prefix
// followed by decimal digits only.
func (n *Namer) Minted(name string) bool {
	suffix, ok := strings.CutPrefix(name, n.prefix)
	if !ok || suffix == "" {
		return false
	}

	for _, c := range suffix {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// Reserve makes sure no name minted later collides with name.
func (n *Namer) Reserve(name string) {
	if !n.Minted(name) {
		return
	}

	if k, err := strconv.Atoi(name[len(n.prefix):]); err == nil && k >= n.next {
		n.next = k + 1
	}
}
