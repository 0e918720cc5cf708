// Package metatools implements the meta-tools of spec.md §6 that are not
// already synthesised by internal/environment.Dynamic itself
// (list-tools/define-tool/undefine-tool): lex-script, parse-script,
// eval-script, and create-evaluator-with-state.
package metatools

import (
	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/regexpat"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
)

type lexToolSymbol struct {
	SymbolName string `json:"symbol_name"`
	MatchRule  string `json:"match_rule"`
}

type lexToolInput struct {
	NewToolName string          `json:"new_tool_name"`
	Symbols     []lexToolSymbol `json:"symbols"`
}

type tokenMatch struct {
	Token   string `json:"token"`
	Matched string `json:"matched"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// generatedLexer builds the string-tokenizing tool lex-script defines:
// input a String, output the array of {token, matched, start, end}
// matches per spec.md §6, stopping silently at the first unmatched
// remainder rather than failing, mirroring original_source's
// StringLexingTool (src/lex/lex_tool.rs), which simply stops iterating its
// Tokenizer rather than reporting an error on a short match.
func generatedLexer(lex *regexpat.Lexer) tool.Tool {
	return tool.Pure(func(input string) []tokenMatch {
		toks, _ := lex.Tokenize(input)
		out := make([]tokenMatch, len(toks))
		for i, t := range toks {
			out[i] = tokenMatch{Token: t.Name, Matched: t.Matched, Start: t.Start, End: t.End}
		}
		return out
	})
}

// LexScript is the `lex-script` meta-tool: it compiles symbols into a DFA
// tokenizer, wraps it as a new tool, and defines it in the caller's
// environment under new_tool_name via the caller's own define-tool, per
// original_source's LexTool::invoke_json (src/lex/lex_tool.rs).
var LexScript = tool.Dynamic(func(in lexToolInput, caller tool.Environment) (value.Value, error) {
	defineTool, ok := caller.Get(environment.DefineTool)
	if !ok {
		return value.Value{}, tool.NewErr("Could not retrieve define-tool", "no define-tool in caller environment")
	}

	rules := make([]regexpat.Rule, len(in.Symbols))
	for i, s := range in.Symbols {
		rules[i] = regexpat.Rule{Name: s.SymbolName, Regex: s.MatchRule}
	}
	lex := regexpat.Compile(rules)

	// An ephemeral environment holding only the generated tool under a
	// fixed local name; define-tool is told to copy it from here under the
	// caller-requested name, matching the Rust tool's "lexer_env" shape.
	lexerEnv := environment.NewStatic(
		environment.BasicFrom(environment.NamedTool{Name: "new", Tool: generatedLexer(lex)}),
		environment.NewEmpty(),
	)

	input := value.Object(
		[2]any{"source_name", value.String("new")},
		[2]any{"target_name", value.String(in.NewToolName)},
	)
	_, err := defineTool.Invoke(input, lexerEnv)
	if err != nil {
		return value.Value{}, err
	}
	return value.Null, nil
})
