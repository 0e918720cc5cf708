package environment

import (
	"sync"

	"github.com/dolthub/swiss"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"golang.org/x/exp/slices"
)

// dynamicInterior is the process-wide, reference-counted mutable state
// shared by every clone of a Dynamic environment.
type dynamicInterior struct {
	mu sync.Mutex

	tools *swiss.Map[string, tool.Tool]

	undefinedList     bool
	undefinedDefine   bool
	undefinedUndefine bool
}

// Dynamic is a mutable environment: tools may be defined or undefined at
// any time, and unless explicitly undefined it always synthesises
// list-tools, define-tool, and undefine-tool (spec.md §3/§4.2).
//
// Dynamic is cheap to copy: every copy shares the same interior via the
// pointer, matching the teacher's and gossyp's Arc<Mutex<...>>-backed
// clone semantics.
type Dynamic struct {
	interior *dynamicInterior
}

// NewDynamic returns a fresh, empty Dynamic environment.
func NewDynamic() Dynamic {
	return Dynamic{interior: &dynamicInterior{tools: swiss.NewMap[string, tool.Tool](8)}}
}

// Define inserts or replaces the tool registered under name.
func (d Dynamic) Define(name string, t tool.Tool) {
	d.interior.mu.Lock()
	defer d.interior.mu.Unlock()
	d.interior.tools.Put(name, t)
}

// Undefine removes name from the map. If name is one of the three
// meta-tool names, it additionally sets a sticky suppression flag so the
// synthesised tool is never resurrected, even after removal from the map
// (which, for a meta-tool name, never held an entry unless the caller
// Define'd over it). Returns whether this call changed anything.
func (d Dynamic) Undefine(name string) bool {
	d.interior.mu.Lock()
	defer d.interior.mu.Unlock()

	_, existed := d.interior.tools.Get(name)
	if existed {
		d.interior.tools.Delete(name)
	}
	removed := existed

	switch name {
	case DefineTool:
		removed = removed || !d.interior.undefinedDefine
		d.interior.undefinedDefine = true
	case UndefineTool:
		removed = removed || !d.interior.undefinedUndefine
		d.interior.undefinedUndefine = true
	case ListTools:
		removed = removed || !d.interior.undefinedList
		d.interior.undefinedList = true
	}
	return removed
}

// Import materialises a toolset against self and defines each entry.
func (d Dynamic) Import(ts Toolset) {
	for _, nt := range ts.CreateTools(d) {
		d.Define(nt.Name, nt.Tool)
	}
}

// Get resolves name per the five-step rule of spec.md §4.2.
func (d Dynamic) Get(name string) (tool.Tool, bool) {
	d.interior.mu.Lock()
	defer d.interior.mu.Unlock()

	if t, ok := d.interior.tools.Get(name); ok {
		return t, true
	}

	switch name {
	case DefineTool:
		if d.interior.undefinedDefine {
			return nil, false
		}
		target := d
		return tool.Dynamic(func(in defineToolInput, caller tool.Environment) (value.Value, error) {
			return value.Null, target.defineFrom(in.SourceName, in.effectiveTarget(), caller)
		}), true

	case ListTools:
		if d.interior.undefinedList {
			return nil, false
		}
		target := d
		return tool.Pure(func(value.Value) listToolsResult {
			return target.listTools()
		}), true

	case UndefineTool:
		if d.interior.undefinedUndefine {
			return nil, false
		}
		target := d
		return tool.Pure(func(in undefineToolInput) bool {
			return target.Undefine(in.Name)
		}), true

	default:
		return nil, false
	}
}

type defineToolInput struct {
	SourceName string  `json:"source_name"`
	TargetName *string `json:"target_name,omitempty"`
}

func (in defineToolInput) effectiveTarget() string {
	if in.TargetName != nil {
		return *in.TargetName
	}
	return in.SourceName
}

type undefineToolInput struct {
	Name string `json:"name"`
}

// defineFrom looks up sourceName in caller's environment and defines it
// under targetName in d. Per spec.md §4.2 step 2.
func (d Dynamic) defineFrom(sourceName, targetName string, caller tool.Environment) error {
	t, ok := caller.Get(sourceName)
	if !ok {
		return tool.NewErr("Tool not found", "no tool named "+sourceName+" in the caller's environment")
	}
	d.Define(targetName, t)
	return nil
}

func (d Dynamic) listTools() listToolsResult {
	d.interior.mu.Lock()
	names := make([]string, 0, d.interior.tools.Count()+3)
	d.interior.tools.Iter(func(k string, _ tool.Tool) bool {
		names = append(names, k)
		return false
	})
	if !d.interior.undefinedDefine {
		names = append(names, DefineTool)
	}
	if !d.interior.undefinedUndefine {
		names = append(names, UndefineTool)
	}
	if !d.interior.undefinedList {
		names = append(names, ListTools)
	}
	d.interior.mu.Unlock()

	slices.Sort(names)
	return listToolsResult{Names: slices.Compact(names)}
}
