package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/lexer"
	"github.com/mna/toolrun/lang/parser"
)

// Parse lexes and parses each given file and prints the resulting parse
// tree's wire serialisation, ported from the teacher's parse subcommand.
func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}

		toks, err := lexer.Tokenize(string(src))
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}

		script, err := parser.ParseScript(toks)
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}

		fmt.Fprintln(stdio.Stdout, ast.ToValue(script).String())
	}
	return nil
}
