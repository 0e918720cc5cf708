package collaborators

import (
	"io"
	"math"
	"sync"

	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
)

// WriteBytes builds the `write-bytes` tool of spec.md §4.9: input an array
// of 0..255 integers, write them as raw bytes to a mutex-guarded stream.
// Grounded on the same shared_stream.rs/print.rs mutex-guarded-writer
// pattern as Print, generalised from text to raw bytes.
func WriteBytes(w io.Writer) tool.Tool {
	var mu sync.Mutex

	return tool.Dynamic(func(in value.Value, _ tool.Environment) (value.Value, error) {
		elems, ok := in.AsArray()
		if !ok {
			return value.Value{}, tool.NewErr("Invalid input", "write-bytes input must be an array of integers 0..255")
		}

		buf := make([]byte, len(elems))
		for i, e := range elems {
			n, ok := e.AsNumber()
			if !ok {
				return value.Value{}, tool.NewErr("Invalid input", "write-bytes elements must be integers in 0..255")
			}
			var b int64
			switch n.Kind {
			case value.NumInt:
				b = n.I
			case value.NumUint:
				b = int64(n.U)
			default:
				if n.F != math.Trunc(n.F) {
					return value.Value{}, tool.NewErr("Invalid input", "write-bytes elements must be integers in 0..255")
				}
				b = int64(n.F)
			}
			if b < 0 || b > 255 {
				return value.Value{}, tool.NewErr("Invalid input", "write-bytes elements must be integers in 0..255")
			}
			buf[i] = byte(b)
		}

		mu.Lock()
		defer mu.Unlock()

		if _, err := w.Write(buf); err != nil {
			return value.Value{}, tool.NewErr("Write failed", err.Error())
		}
		return value.Null, nil
	})
}
