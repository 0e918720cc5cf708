package collaborators

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
)

// ReadLine builds the `read-line` tool of spec.md §4.9: reads up to a
// newline or end-of-stream from a mutex-guarded input stream, decoding the
// bytes read as UTF-8 (lossy: each run of invalid bytes becomes U+FFFD).
// Grounded on original_source's src/io/read_line.rs
// ReadLineTool, byte-at-a-time loop collapsed into bufio.Reader.ReadString.
func ReadLine(r io.Reader) tool.Tool {
	var mu sync.Mutex
	br := bufio.NewReader(r)

	return tool.Dynamic(func(value.Value, tool.Environment) (value.Value, error) {
		mu.Lock()
		defer mu.Unlock()

		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return value.Value{}, tool.NewErr("I/O error", err.Error())
		}

		eof := errors.Is(err, io.EOF)
		if !eof {
			line = line[:len(line)-1] // trim the trailing newline
		}

		out := value.NewObject()
		out.Set("eof", value.Bool(eof))
		out.Set("line", value.String(strings.ToValidUTF8(line, "�")))
		return out, nil
	})
}
