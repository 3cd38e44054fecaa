package predicate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokCompare
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokIdent:
		return "column name"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokCompare:
		return "comparison operator"
	case tokAnd:
		return "'and'"
	case tokOr:
		return "'or'"
	case tokNot:
		return "'not'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "end of expression"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// SyntaxError reports where an expression stopped making sense. Pos is a
// 1-based byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, w := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += w
		case r == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case r == '=' || r == '!' || r == '<' || r == '>':
			op, err := lexCompare(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokCompare, op, i})
			i += len(op)
		case r == '\'' || r == '"':
			s, n, err := lexQuoted(src, i, byte(r))
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokString, s, i})
			i += n
		case r == '`':
			end := strings.IndexByte(src[i+1:], '`')
			if end < 0 {
				return nil, &SyntaxError{Pos: i + 1, Msg: "unterminated backtick column name"}
			}
			name := src[i+1 : i+1+end]
			if name == "" {
				return nil, &SyntaxError{Pos: i + 1, Msg: "empty column name"}
			}
			toks = append(toks, token{tokIdent, name, i})
			i += end + 2
		case unicode.IsDigit(r) || r == '.' || ((r == '-' || r == '+') && startsNumber(src[i+1:])):
			j := i + 1
			for j < len(src) && isNumberByte(src[j], src[j-1]) {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j], i})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i + w
			for j < len(src) {
				r2, w2 := utf8.DecodeRuneInString(src[j:])
				if r2 != '_' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
					break
				}
				j += w2
			}
			word := src[i:j]
			toks = append(toks, token{keyword(word), word, i})
			i = j
		default:
			return nil, &SyntaxError{Pos: i + 1, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return append(toks, token{tokEOF, "", len(src)}), nil
}

func lexCompare(src string, i int) (string, error) {
	two := ""
	if i+1 < len(src) {
		two = src[i : i+2]
	}
	switch two {
	case "==", "!=", "<=", ">=":
		return two, nil
	}
	switch src[i] {
	case '<', '>':
		return src[i : i+1], nil
	case '=':
		return "", &SyntaxError{Pos: i + 1, Msg: "use '==' for equality"}
	default:
		return "", &SyntaxError{Pos: i + 1, Msg: "use 'not' or '!=' instead of '!'"}
	}
}

func lexQuoted(src string, i int, quote byte) (string, int, error) {
	var b strings.Builder
	j := i + 1
	for j < len(src) {
		c := src[j]
		switch {
		case c == '\\' && j+1 < len(src):
			b.WriteByte(src[j+1])
			j += 2
		case c == quote:
			return b.String(), j + 1 - i, nil
		default:
			b.WriteByte(c)
			j++
		}
	}
	return "", 0, &SyntaxError{Pos: i + 1, Msg: "unterminated string"}
}

func startsNumber(rest string) bool {
	return rest != "" && (rest[0] >= '0' && rest[0] <= '9' || rest[0] == '.')
}

func isNumberByte(c, prev byte) bool {
	switch {
	case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E':
		return true
	case c == '-' || c == '+':
		return prev == 'e' || prev == 'E'
	default:
		return false
	}
}

func keyword(word string) tokenKind {
	switch strings.ToLower(word) {
	case "and":
		return tokAnd
	case "or":
		return tokOr
	case "not":
		return tokNot
	default:
		return tokIdent
	}
}
