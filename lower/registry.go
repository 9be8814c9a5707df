package lower

import "fmt"

// passes is the full lowering pipeline in the order the passes must run.
var passes = []Pass{
	CheckResults,
	InsertImplicitResults,
	RewriteResults,
	LinkElifChains,
	RewriteConditions,
	InsertCloses,
	InsertElseEntries,
}

// Full returns the full lowering pipeline.
func Full() []Pass {
	full := make([]Pass, len(passes))
	copy(full, passes)
	return full
}

// Names returns the names of the passes of the full pipeline in order.
func Names() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name()
	}

	return names
}

// PassByName looks up a pass of the full pipeline by name.
func PassByName(name string) (Pass, bool) {
	for _, p := range passes {
		if p.Name() == name {
			return p, true
		}
	}

	return nil, false
}

// Prefix returns the first n passes of the full pipeline.
func Prefix(n int) []Pass {
	if n < 0 {
		n = 0
	} else if n > len(passes) {
		n = len(passes)
	}

	return Full()[:n]
}

// UpTo returns the passes of the full pipeline up to and including the named
// pass.
func UpTo(name string) ([]Pass, error) {
	for i, p := range passes {
		if p.Name() == name {
			return Prefix(i + 1), nil
		}
	}

	return nil, fmt.Errorf("unknown pass: `%s`", name)
}

// Select looks up a list of passes by name.  The passes are returned in the
// order they are named.
func Select(names []string) ([]Pass, error) {
	selected := make([]Pass, len(names))
	for i, name := range names {
		p, ok := PassByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown pass: `%s`", name)
		}

		selected[i] = p
	}

	return selected, nil
}
