package metatools

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/lexer"
	"github.com/mna/toolrun/lang/parser"
	"github.com/mna/toolrun/lang/token"
)

type lexedToken struct {
	Token   string `json:"token"`
	Matched string `json:"matched"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// ParseScript is the `parse-script` meta-tool of spec.md §6: input is the
// lex-tool output array, output is a serialisation of the parse tree
// (lang/ast.ToValue) or a parse error `{message, remaining: [token]}`.
// Rule names are decoded via lang/lexer.KindForRuleName, the same
// convention lang/lexer.Tokenize itself uses, so output from lex-script
// built with lang/lexer.Rules() parses directly.
var ParseScript = tool.Fallible(func(toks []lexedToken) (value.Value, error) {
	converted := make([]token.Token, len(toks))
	for i, t := range toks {
		converted[i] = token.Token{
			Kind:  lexer.KindForRuleName(t.Token, t.Matched),
			Text:  t.Matched,
			Start: token.Pos(t.Start),
			End:   token.Pos(t.End),
		}
	}

	script, err := parser.ParseScript(converted)
	if err != nil {
		if perr, ok := err.(*parser.Error); ok {
			return parseErrorValue(perr), nil
		}
		return value.Value{}, err
	}
	return ast.ToValue(script), nil
})

func parseErrorValue(perr *parser.Error) value.Value {
	remaining := make([]value.Value, len(perr.Remaining))
	for i, t := range perr.Remaining {
		o := value.NewObject()
		o.Set("token", value.String(t.Kind.String()))
		o.Set("matched", value.String(t.Text))
		o.Set("start", value.Int(int64(t.Start)))
		o.Set("end", value.Int(int64(t.End)))
		remaining[i] = o
	}
	out := value.NewObject()
	out.Set("message", value.String(perr.Message))
	out.Set("remaining", value.Array(remaining))
	return out
}
