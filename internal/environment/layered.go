package environment

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"golang.org/x/exp/slices"
)

// Layered holds an ordered list of child environments; the first child
// whose Get succeeds wins (spec.md §3/§4.2). It synthesises a list-tools
// tool that unions, sorts, and de-duplicates every child's list-tools
// output.
type Layered struct {
	children []tool.Environment
}

// NewLayered builds a layered environment over children, checked in order.
func NewLayered(children ...tool.Environment) Layered {
	return Layered{children: children}
}

func (l Layered) Get(name string) (tool.Tool, bool) {
	if name == ListTools {
		children := l.children
		return tool.Pure(func(value.Value) listToolsResult {
			return unionListTools(children)
		}), true
	}

	for _, c := range l.children {
		if t, ok := c.Get(name); ok {
			return t, true
		}
	}
	return nil, false
}

// unionListTools requests each child's list-tools, invokes it with Null
// input under an empty environment, decodes the result, concatenates,
// sorts, and de-duplicates — per spec.md's invariant on Layered.list-tools.
func unionListTools(children []tool.Environment) listToolsResult {
	empty := NewEmpty()
	var all []string
	for _, c := range children {
		lt, ok := c.Get(ListTools)
		if !ok {
			continue
		}
		result, err := lt.Invoke(value.Null, empty)
		if err != nil {
			continue
		}
		namesVal, ok := result.Get("names")
		if !ok {
			continue
		}
		arr, ok := namesVal.AsArray()
		if !ok {
			continue
		}
		for _, nv := range arr {
			if s, ok := nv.AsString(); ok {
				all = append(all, s)
			}
		}
	}
	slices.Sort(all)
	return listToolsResult{Names: slices.Compact(all)}
}
