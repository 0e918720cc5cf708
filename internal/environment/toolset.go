package environment

import "github.com/mna/toolrun/internal/tool"

// Basic is the simplest Toolset: a fixed list of (name, Tool) pairs handed
// to it at construction, ignoring the host environment.
type Basic []NamedTool

func (b Basic) CreateTools(tool.Environment) []NamedTool { return b }

// BasicFrom is a convenience constructor from name/tool pairs.
func BasicFrom(pairs ...NamedTool) Basic { return Basic(pairs) }
