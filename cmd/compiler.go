package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"regionc/ast"
	"regionc/config"
	"regionc/lower"
	"regionc/report"
	"regionc/syntax"
	"regionc/trace"
)

// Compiler represents the state of a single lowering request: one source file
// lowered with one profile.
type Compiler struct {
	// srcAbsPath is the absolute path to the source file.
	srcAbsPath string

	// reprPath is the path to the source file displayed to the user.
	reprPath string

	// profile is the profile the source is lowered with.
	profile *config.Profile

	// out is where the emitted output is written.
	out io.Writer

	log *zap.Logger

	// file is the parsed source file.
	file *ast.File

	// globals is the global scope of the source file.
	globals *trace.Env

	// lowered is the list of lowered functions in definition order.
	lowered []*lower.Lowered
}

// NewCompiler creates a new compiler.
func NewCompiler(srcRelPath string, profile *config.Profile, out io.Writer) *Compiler {
	// calculate the absolute path to the source file.
	srcAbsPath, err := filepath.Abs(srcRelPath)
	if err != nil {
		srcAbsPath = srcRelPath
	}

	return &Compiler{
		srcAbsPath: srcAbsPath,
		reprPath:   srcRelPath,
		profile:    profile,
		out:        out,
		log:        zap.NewNop(),
	}
}

// SetLogger sets the logger the compiler traces functions to.
func (c *Compiler) SetLogger(log *zap.Logger) {
	c.log = log
}

// Run runs all the phases of the compiler.  It returns whether every phase
// succeeded.
func (c *Compiler) Run() bool {
	return c.Parse() && c.Lower() && c.Emit()
}

// Parse parses the source file and builds its global scope.
func (c *Compiler) Parse() bool {
	f, err := os.Open(c.srcAbsPath)
	if err != nil {
		report.ReportStdError(c.reprPath, fmt.Errorf("unable to open source file: %w", err))
		return false
	}
	defer f.Close()

	c.file, err = syntax.Parse(c.srcAbsPath, f)
	if err != nil {
		report.ReportError(c.srcAbsPath, c.reprPath, err)
		return false
	}

	c.globals, err = trace.NewGlobals(c.file)
	if err != nil {
		report.ReportError(c.srcAbsPath, c.reprPath, err)
		return false
	}

	for _, name := range c.profile.Functions {
		if _, ok := c.file.Def(name); !ok {
			report.ReportStdError(c.reprPath, fmt.Errorf("no function named `%s`", name))
			return false
		}
	}

	return true
}

// Lower lowers the selected functions of the source file concurrently.  Every
// function is lowered by its own pipeline.  All failures are reported.  On
// success, the globals are relinked to the lowered functions.
func (c *Compiler) Lower() bool {
	var fns []*trace.Function
	for _, def := range c.file.Defs {
		if !c.profile.Selects(def.Name) {
			continue
		}

		v, _ := c.globals.Lookup(def.Name)
		fns = append(fns, v.(*trace.Function))
	}

	lowered, merr := c.lowerAll(fns)
	if merr.ErrorOrNil() != nil {
		for _, err := range merr.Errors {
			c.reportError(err)
		}

		return false
	}

	// relink the globals so that calls between functions call the lowered
	// functions
	for _, l := range lowered {
		c.globals.Set(l.Func.Name(), l.Func)
	}

	c.lowered = lowered
	return true
}

// lowerAll lowers functions concurrently.  The errors of all the functions
// that failed are returned in definition order.
func (c *Compiler) lowerAll(fns []*trace.Function) ([]*lower.Lowered, *multierror.Error) {
	lowered := make([]*lower.Lowered, len(fns))
	errs := make([]error, len(fns))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, fn := range fns {
		i, fn := i, fn

		// The goroutines never fail the group: a failing function must not
		// cancel the others since all failures are reported.
		g.Go(func() error {
			pipeline := lower.NewPipeline(c.profile.Passes...).WithHandlePrefix(c.profile.HandlePrefix)
			lowered[i], errs[i] = pipeline.Run(fn)
			return nil
		})
	}

	g.Wait()

	var merr *multierror.Error
	for i, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, &FuncError{Func: fns[i].Name(), Err: err})
		}
	}

	return lowered, merr
}

// Lowered returns the lowered functions in definition order.
func (c *Compiler) Lowered() []*lower.Lowered {
	return c.lowered
}

// reportError reports an error produced while lowering or emitting a function.
// Errors pointing into the source are reported as compile errors.
func (c *Compiler) reportError(err error) {
	prefix := ""
	var fe *FuncError
	if errors.As(err, &fe) {
		prefix = fmt.Sprintf("in function `%s`: ", fe.Func)
	}

	var sm *lower.StructuralMismatch
	if errors.As(err, &sm) {
		report.ReportCompileError(c.srcAbsPath, c.reprPath, sm.Span, "%s%s", prefix, sm)
		return
	}

	var lce *report.LocalCompileError
	if errors.As(err, &lce) && lce.Span != nil {
		report.ReportCompileError(c.srcAbsPath, c.reprPath, lce.Span, "%s%s", prefix, lce.Message)
		return
	}

	report.ReportStdError(c.reprPath, err)
}

// -----------------------------------------------------------------------------

// FuncError is an error which occurred while processing a single function.
type FuncError struct {
	Func string
	Err  error
}

func (fe *FuncError) Error() string {
	return fmt.Sprintf("in function `%s`: %s", fe.Func, fe.Err)
}

func (fe *FuncError) Unwrap() error {
	return fe.Err
}
