package environment

import "github.com/mna/toolrun/internal/tool"

// Empty is an environment that never resolves any name.
type Empty struct{}

// NewEmpty returns the empty environment.
func NewEmpty() Empty { return Empty{} }

func (Empty) Get(name string) (tool.Tool, bool) { return nil, false }
