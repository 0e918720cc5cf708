package maincmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
	"github.com/mna/mainer"
	"github.com/mna/toolrun/internal/collaborators"
	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/metatools"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/lang/lexer"
	"github.com/mna/toolrun/lang/parser"
	"github.com/mna/toolrun/lang/stateful"
)

// replConfig holds the REPL's environment-variable overrides, per
// SPEC_FULL's ambient-stack commitment to github.com/caarlos0/env/v6.
type replConfig struct {
	Prompt string `env:"TOOLRUN_PROMPT" envDefault:"> "`
}

// buildEnvironment wires the meta-tools and external collaborators into a
// single dynamic environment: list-tools/define-tool/undefine-tool come
// from Dynamic itself (spec.md §4.2); everything else is Import'd.
func buildEnvironment(stdin io.Reader, stdout io.Writer) environment.Dynamic {
	dyn := environment.NewDynamic()
	dyn.Import(environment.ToolsetFunc(func(tool.Environment) []environment.NamedTool {
		return []environment.NamedTool{
			{Name: "lex-script", Tool: metatools.LexScript},
			{Name: "parse-script", Tool: metatools.ParseScript},
			{Name: "eval-script", Tool: metatools.EvalScript},
			{Name: "create-evaluator-with-state", Tool: metatools.CreateEvaluatorWithState},
			{Name: "print", Tool: collaborators.Print(stdout)},
			{Name: "read-line", Tool: collaborators.ReadLine(stdin)},
			{Name: "write-bytes", Tool: collaborators.WriteBytes(stdout)},
			{Name: "compare-values", Tool: collaborators.CompareValues},
			{Name: "sort", Tool: collaborators.Sort},
		}
	}))
	return dyn
}

// Repl runs the interactive read-eval-print loop of spec.md §6: print a
// header, then repeatedly prompt, read a line, lex it, parse it, evaluate
// it, and print the non-null result or a formatted error. EOF or an I/O
// error on the input stream terminates the loop.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, _ []string) error {
	cfg := replConfig{Prompt: "> "}
	if err := env.Parse(&cfg); err != nil {
		return printError(stdio, fmt.Errorf("reading REPL configuration: %w", err))
	}

	sessionID := uuid.New()
	log := c.logger().With("session", sessionID.String())
	log.Debug("repl session starting")

	fmt.Fprintf(stdio.Stdout, "%s %s (session %s)\n", binName, c.BuildVersion, sessionID)

	evaluator := stateful.New()
	host := buildEnvironment(stdio.Stdin, stdio.Stdout)

	scanner := bufio.NewScanner(stdio.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(stdio.Stdout, cfg.Prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				log.Debugw("repl input error", "error", err)
				return printError(stdio, err)
			}
			return nil // EOF
		}

		line := scanner.Text()
		if err := c.evalLine(line, evaluator, host, stdio, log); err != nil {
			// evalLine already reported the error to stdio; the loop continues,
			// matching the "formatted error, then keep prompting" behaviour of
			// a REPL (only I/O errors above terminate it).
			continue
		}
	}
}

func (c *Cmd) evalLine(line string, ev *stateful.Evaluator, host tool.Environment, stdio mainer.Stdio, log interface {
	Debugw(string, ...interface{})
}) error {
	toks, err := lexer.Tokenize(line)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "lex error: %s\n", err)
		return err
	}

	script, err := parser.ParseScript(toks)
	if err != nil {
		var perr *parser.Error
		if errors.As(err, &perr) {
			fmt.Fprintf(stdio.Stderr, "parse error: %s\n", perr.Message)
			return err
		}
		fmt.Fprintf(stdio.Stderr, "parse error: %s\n", err)
		return err
	}

	result, err := ev.EvaluateUnbound(script, host)
	if err != nil {
		log.Debugw("eval error", "error", err)
		fmt.Fprintf(stdio.Stderr, "error: %s\n", tool.AsValue(err).String())
		return err
	}

	if !result.IsNull() {
		fmt.Fprintln(stdio.Stdout, result.String())
	}
	return nil
}
