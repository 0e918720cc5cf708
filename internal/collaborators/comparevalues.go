package collaborators

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
)

// CompareValues builds the `compare-values` tool of spec.md §4.9: input a
// two-element array [a, b], output -1/0/1 per value.Compare's ordering
// rule. Grounded on original_source's src/algorithm/compare.rs CompareTool,
// whose per-kind comparison rules value.Compare already implements.
var CompareValues = tool.Fallible(func(pair []value.Value) (int64, error) {
	if len(pair) != 2 {
		return 0, tool.NewErr("Invalid input", "compare-values input must be a two-element array [a, b]")
	}
	return int64(value.Compare(pair[0], pair[1])), nil
})
