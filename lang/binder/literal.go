package binder

import (
	"strconv"
	"strings"

	"github.com/mna/toolrun/internal/value"
)

// decodeStringLiteral un-escapes a still-quoted string token per spec.md
// §4.7: the token text includes the enclosing quotes; `\n \r \t` are
// recognised, and `\<any other char>` decodes to that char verbatim
// (covering `\"` and `\\`).
func decodeStringLiteral(text string) (value.Value, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return value.Null, &Error{Tag: "StatementNotImplemented", Description: "malformed string literal"}
	}
	inner := text[1 : len(text)-1]

	var sb strings.Builder
	runes := []rune(inner)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' || i == len(runes)-1 {
			sb.WriteRune(c)
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteRune(runes[i])
		}
	}
	return value.String(sb.String()), nil
}

// decodeNumberLiteral parses a still-textual number token per spec.md
// §4.7: decimal with '.' or exponent -> float64; "0x" prefix -> base-16
// signed int64; otherwise -> signed int64.
func decodeNumberLiteral(text string) (value.Value, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		n, err := strconv.ParseInt(text[2:], 16, 64)
		if err != nil {
			return value.Null, &Error{Tag: "StatementNotImplemented", Description: "malformed hex number literal"}
		}
		return value.Int(n), nil
	}

	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Null, &Error{Tag: "StatementNotImplemented", Description: "malformed number literal"}
		}
		return value.Float(f), nil
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return value.Null, &Error{Tag: "StatementNotImplemented", Description: "malformed number literal"}
	}
	return value.Int(n), nil
}
