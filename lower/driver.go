package lower

import (
	"fmt"

	"go.uber.org/zap"

	"regionc/ast"
	"regionc/report"
	"regionc/trace"
)

// PipelineError is returned when a pass of a pipeline fails.
type PipelineError struct {
	// The name of the failing pass.
	Pass string

	// The position of the failing pass in the pipeline.
	Index int

	Err error
}

func (pe *PipelineError) Error() string {
	return fmt.Sprintf("pass %d (%s) failed: %s", pe.Index, pe.Pass, pe.Err)
}

func (pe *PipelineError) Unwrap() error {
	return pe.Err
}

// Lowered is the result of lowering a function.
type Lowered struct {
	// The rewritten function definition.
	Tree *ast.FuncDef

	// The rewritten definition as source text.
	Source string

	// The rewritten function, sharing the globals and defaults of the function
	// it was lowered from.
	Func *trace.Function

	// The names of the passes that were applied in order.
	Applied []string
}

// Pipeline is an ordered list of passes applied to a function.  A pipeline may
// be run any number of times, including concurrently: each run mints its
// handle names from a counter of its own.
type Pipeline struct {
	passes []Pass
	prefix string
}

// NewPipeline creates a new pipeline of the given passes.  If no passes are
// given, the full pipeline is used.
func NewPipeline(passes ...Pass) *Pipeline {
	if len(passes) == 0 {
		passes = Full()
	}

	return &Pipeline{passes: passes, prefix: DefaultHandlePrefix}
}

// WithHandlePrefix sets the prefix of the handle names the pipeline mints.
func (p *Pipeline) WithHandlePrefix(prefix string) *Pipeline {
	if prefix != "" {
		p.prefix = prefix
	}

	return p
}

// Passes returns the passes of the pipeline.
func (p *Pipeline) Passes() []Pass {
	return p.passes
}

// Run lowers a function.  The function's definition is not modified.
func (p *Pipeline) Run(fn *trace.Function) (*Lowered, error) {
	tree := ast.Clone(fn.Def)
	ctx := NewContext(p.prefix)
	reserveNames(tree, ctx.namer)

	log := ctx.log.With(zap.String("func", fn.Name()))

	applied := make([]string, 0, len(p.passes))
	for i, ps := range p.passes {
		next, err := applyPass(ps, tree, ctx)
		if err != nil {
			log.Debug("pass failed", zap.String("pass", ps.Name()), zap.Error(err))
			return nil, &PipelineError{Pass: ps.Name(), Index: i, Err: err}
		}

		tree = next
		applied = append(applied, ps.Name())
		log.Debug("applied pass", zap.String("pass", ps.Name()), zap.Int("index", i))
	}

	return &Lowered{
		Tree:    tree,
		Source:  ast.Print(tree),
		Func:    fn.Rebind(tree),
		Applied: applied,
	}, nil
}

// applyPass applies a single pass converting any compile error raised by the
// pass into an error.
func applyPass(ps Pass, fn *ast.FuncDef, ctx *Context) (result *ast.FuncDef, err error) {
	defer func() {
		report.Recover(recover(), &err)
	}()

	result, err = ps.Apply(fn, ctx)
	if err == nil && result == nil {
		err = fmt.Errorf("pass returned no tree")
	}

	return
}

// reserveNames makes sure no handle name minted by a run collides with a name
// already bound in the function: eg. a tree which was already partially
// lowered.
func reserveNames(fn *ast.FuncDef, namer *Namer) {
	for _, param := range fn.Params {
		namer.Reserve(param.Name)
	}

	ast.WalkBlocks(fn.Body, func(b *ast.Block) {
		for _, stmt := range b.Stmts {
			switch v := stmt.(type) {
			case *ast.Assignment:
				for _, target := range v.Targets {
					namer.Reserve(target.Name)
				}
			case *ast.ResultStmt:
				for _, target := range v.Targets {
					namer.Reserve(target.Name)
				}
			case *ast.IfStmt:
				if named, ok := v.Cond.(*ast.NamedExpr); ok {
					namer.Reserve(named.Target.Name)
				}
			}
		}
	})
}

// Lower lowers a function with the given passes.  If no passes are given, the
// full pipeline is used.
func Lower(fn *trace.Function, passes ...Pass) (*Lowered, error) {
	return NewPipeline(passes...).Run(fn)
}
