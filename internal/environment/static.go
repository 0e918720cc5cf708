package environment

import "github.com/mna/toolrun/internal/tool"

// Static snapshots a toolset at construction time; it is immutable for the
// rest of its lifetime, making lookups safe to share across goroutines
// without any synchronisation beyond the Go map's read-only guarantee.
type Static struct {
	tools map[string]tool.Tool
}

// NewStatic builds a toolset against host (for dependency injection at
// birth) and snapshots its output into an immutable environment.
func NewStatic(ts Toolset, host tool.Environment) *Static {
	m := make(map[string]tool.Tool)
	for _, nt := range ts.CreateTools(host) {
		m[nt.Name] = nt.Tool
	}
	return &Static{tools: m}
}

func (s *Static) Get(name string) (tool.Tool, bool) {
	t, ok := s.tools[name]
	return t, ok
}
