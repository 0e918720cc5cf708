// Package maincmd implements the CLI entry point of spec.md §6: a REPL
// subcommand (the default) plus tokenize/parse developer subcommands,
// ported from the teacher's own maincmd package and its reflect-based
// command dispatch.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const binName = "toolrun"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<command>] [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<command>] [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Component-oriented tool runtime and REPL for %[1]s scripts.

The <command> can be one of (default: repl):
       repl                      Start the interactive read-eval-print
                                 loop (default when no command is given).
       tokenize                  Lex the given script files and print
                                 their tokens.
       parse                     Lex and parse the given script files and
                                 print the resulting parse tree.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --verbose                 Enable debug-level logging.
`, binName)
)

// Cmd is the CLI's flag/dispatch shape, following the teacher's
// mainer.Parser-driven Cmd struct.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Verbose bool `flag:"verbose"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error

	log *zap.SugaredLogger
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

// Validate resolves the subcommand, defaulting to repl when none is given
// per spec.md §6 ("the process prints a header, then repeatedly
// prompts..." with no other invocation shown) — unlike the teacher, which
// requires an explicit command.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	cmds := buildCmds(c)

	cmdName := "repl"
	rest := c.args
	if len(c.args) > 0 {
		if _, isCmd := cmds[c.args[0]]; isCmd {
			cmdName = c.args[0]
			rest = c.args[1:]
		}
	}

	c.cmdFn = cmds[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	c.args = rest

	if (cmdName == "tokenize" || cmdName == "parse") && len(rest) == 0 {
		return errors.New(cmdName + ": at least one file must be provided")
	}
	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) logger() *zap.SugaredLogger {
	if c.log != nil {
		return c.log
	}
	cfg := zap.NewProductionConfig()
	if c.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	c.log = logger.Sugar()
	return c.log
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	defer func() {
		if c.log != nil {
			_ = c.log.Sync()
		}
	}()

	if err := c.cmdFn(ctx, stdio, c.args); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds maps lowercased method names to the (ctx, stdio, args) error
// shape, exactly as the teacher's reflect-based dispatch does.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
