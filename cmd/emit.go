package cmd

import (
	"fmt"
	"io"

	"github.com/kr/pretty"

	"regionc/config"
	"regionc/generate"
	"regionc/ir"
	"regionc/trace"
)

// Emit writes the output selected by the profile's emit mode for every lowered
// function.  If any function cannot be traced, nothing is written.
func (c *Compiler) Emit() bool {
	switch c.profile.Emit {
	case config.EmitSource:
		for i, l := range c.lowered {
			if i > 0 {
				fmt.Fprintln(c.out)
			}

			io.WriteString(c.out, l.Source)
		}
	case config.EmitAST:
		for _, l := range c.lowered {
			fmt.Fprintf(c.out, "%# v\n", pretty.Formatter(l.Tree))
		}
	case config.EmitIR, config.EmitLLVM:
		mod, ok := c.Trace()
		if !ok {
			return false
		}

		if c.profile.Emit == config.EmitIR {
			io.WriteString(c.out, ir.Print(mod))
			return true
		}

		llMod, err := generate.Generate(mod)
		if err != nil {
			c.reportError(err)
			return false
		}

		io.WriteString(c.out, llMod.String())
	}

	return true
}

// Trace traces every lowered function into a single module and verifies it.
// All failures are reported.
func (c *Compiler) Trace() (*ir.Module, bool) {
	mod := ir.NewModule()

	ok := true
	for _, l := range c.lowered {
		if _, err := trace.TraceFunc(mod, l.Func, c.log); err != nil {
			c.reportError(&FuncError{Func: l.Func.Name(), Err: err})
			ok = false
		}
	}

	if !ok {
		return nil, false
	}

	if err := ir.Verify(mod); err != nil {
		c.reportError(err)
		return nil, false
	}

	return mod, true
}
