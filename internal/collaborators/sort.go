package collaborators

import (
	"sort"

	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
)

// Sort builds the `sort` tool of spec.md §4.9: input is either a bare array
// or `{array, compare_tool?}`; sorts using value.Compare by default, or the
// named tool from the caller's environment when compare_tool is given (it
// must accept [a, b] and return a signed number; an error or non-number
// result counts as equal, per original_source's SortTool::sort, which
// ignores comparison-tool errors the same way). sort.SliceStable is used
// rather than x/exp/slices.SortFunc so a user-supplied comparator that
// treats two elements as equal never reorders them. Grounded on
// original_source's src/algorithm/sort.rs SortTool.
var Sort = tool.Dynamic(func(in value.Value, env tool.Environment) (value.Value, error) {
	array, compareToolName, err := sortParams(in)
	if err != nil {
		return value.Value{}, err
	}

	sorted := append([]value.Value(nil), array...)

	if compareToolName == "" {
		sort.SliceStable(sorted, func(i, j int) bool { return value.Compare(sorted[i], sorted[j]) < 0 })
		return value.Array(sorted), nil
	}

	compareTool, ok := env.Get(compareToolName)
	if !ok {
		return value.Value{}, tool.NewErr("Compare tool not found", "no such tool: "+compareToolName)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		result, invokeErr := compareTool.Invoke(value.Array([]value.Value{sorted[i], sorted[j]}), env)
		if invokeErr != nil {
			return false
		}
		n, ok := result.AsNumber()
		if !ok {
			return false
		}
		return numberSign(n) < 0
	})
	return value.Array(sorted), nil
})

func numberSign(n value.Number) int {
	switch n.Kind {
	case value.NumInt:
		switch {
		case n.I < 0:
			return -1
		case n.I > 0:
			return 1
		default:
			return 0
		}
	case value.NumUint:
		if n.U > 0 {
			return 1
		}
		return 0
	default:
		switch {
		case n.F < 0:
			return -1
		case n.F > 0:
			return 1
		default:
			return 0
		}
	}
}

func sortParams(in value.Value) (array []value.Value, compareToolName string, err error) {
	if arr, ok := in.AsArray(); ok {
		return arr, "", nil
	}

	if in.Kind() != value.KindObject {
		return nil, "", tool.NewErr("Invalid input",
			`parameters to sort must be an array or of the form { "array": <array>, "compare_tool": <tool_name> }`)
	}

	arrVal, ok := in.Get("array")
	if !ok {
		return nil, "", tool.NewErr("Invalid input",
			`parameters to sort must be an array or of the form { "array": <array>, "compare_tool": <tool_name> }`)
	}
	arr, ok := arrVal.AsArray()
	if !ok {
		return nil, "", tool.NewErr("Invalid input", `"array" field must be an array`)
	}

	if toolVal, ok := in.Get("compare_tool"); ok {
		if name, ok := toolVal.AsString(); ok {
			return arr, name, nil
		}
	}
	return arr, "", nil
}
