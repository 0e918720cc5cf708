// Package environment implements the name→tool resolution family of
// spec.md §3/§4.2: empty, static, dynamic, and layered environments, plus
// the toolset factory abstraction they are built from.
package environment

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"golang.org/x/exp/slices"
)

// Meta-tool names, stable per spec.md §6.
const (
	ListTools     = "list-tools"
	DefineTool    = "define-tool"
	UndefineTool  = "undefine-tool"
)

// Toolset is a one-shot factory for (name, Tool) pairs, consumed once by a
// Static or Dynamic environment constructor. host is the environment the
// toolset is being built against, for dependency injection at birth
// (spec.md §4.3).
type Toolset interface {
	CreateTools(host tool.Environment) []NamedTool
}

// NamedTool pairs a tool with the name it should be registered under.
type NamedTool struct {
	Name string
	Tool tool.Tool
}

// ToolsetFunc adapts a plain function into a Toolset.
type ToolsetFunc func(host tool.Environment) []NamedTool

func (f ToolsetFunc) CreateTools(host tool.Environment) []NamedTool { return f(host) }

// Combine concatenates two toolsets' output against the same host
// environment, per spec.md §4.3.
func Combine(sets ...Toolset) Toolset {
	return ToolsetFunc(func(host tool.Environment) []NamedTool {
		var out []NamedTool
		for _, s := range sets {
			out = append(out, s.CreateTools(host)...)
		}
		return out
	})
}

// WithListTools wraps a toolset and appends a synthetic list-tools tool
// whose output is the sorted, de-duplicated set of names from the wrapped
// toolset plus "list-tools" itself (spec.md §4.3).
func WithListTools(inner Toolset) Toolset {
	return ToolsetFunc(func(host tool.Environment) []NamedTool {
		tools := inner.CreateTools(host)
		names := make([]string, 0, len(tools)+1)
		for _, t := range tools {
			names = append(names, t.Name)
		}
		names = append(names, ListTools)
		slices.Sort(names)
		names = slices.Compact(names)

		listTool := tool.Pure(func(value.Value) listToolsResult {
			return listToolsResult{Names: names}
		})
		return append(tools, NamedTool{Name: ListTools, Tool: listTool})
	})
}

type listToolsResult struct {
	Names []string `json:"names"`
}
