package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/toolrun/lang/lexer"
)

// Tokenize lexes each given file and prints its tokens, one per line,
// ported from the teacher's tokenize subcommand to this grammar's
// lang/lexer.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}

		toks, err := lexer.Tokenize(string(src))
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}

		for _, t := range toks {
			fmt.Fprintf(stdio.Stdout, "%s:%d:%d: %s %q\n", path, t.Start, t.End, t.Kind, t.Text)
		}
	}
	return nil
}
