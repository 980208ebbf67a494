package rewriter

import (
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	identToken tokenKind = iota
	punctToken
	stringToken
	templateToken
)

// token is a lexical unit of a script source with its byte span.
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// scan splits src into identifiers, punctuation, string and template
// literals. Comments and whitespace are dropped. Quoted strings end at a line
// break so that an apostrophe in markup text cannot swallow the rest of the
// file.
func scan(src string) []token {
	var tokens []token
	n := len(src)
	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			i = skipLine(src, i)
		case c == '/' && i+1 < n && src[i+1] == '*':
			i = skipBlockComment(src, i)
		case c == '\'' || c == '"':
			end := scanQuoted(src, i)
			tokens = append(tokens, token{kind: stringToken, text: src[i:end], start: i, end: end})
			i = end
		case c == '`':
			end := scanTemplate(src, i)
			tokens = append(tokens, token{kind: templateToken, text: src[i:end], start: i, end: end})
			i = end
		case isIdentPart(c):
			end := i + 1
			for end < n && isIdentPart(src[end]) {
				end++
			}
			tokens = append(tokens, token{kind: identToken, text: src[i:end], start: i, end: end})
			i = end
		case c == '=' && i+1 < n && src[i+1] == '>':
			tokens = append(tokens, token{kind: punctToken, text: "=>", start: i, end: i + 2})
			i += 2
		default:
			_, size := utf8.DecodeRuneInString(src[i:])
			tokens = append(tokens, token{kind: punctToken, text: src[i : i+size], start: i, end: i + size})
			i += size
		}
	}
	return tokens
}

func isIdentPart(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

func skipLine(src string, i int) int {
	if idx := strings.IndexByte(src[i:], '\n'); idx >= 0 {
		return i + idx
	}
	return len(src)
}

func skipBlockComment(src string, i int) int {
	if idx := strings.Index(src[i+2:], "*/"); idx >= 0 {
		return i + 2 + idx + 2
	}
	return len(src)
}

func scanQuoted(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); {
		switch src[j] {
		case '\\':
			j += 2
		case quote:
			return j + 1
		case '\n':
			return j
		default:
			j++
		}
	}
	return len(src)
}

func scanTemplate(src string, i int) int {
	for j := i + 1; j < len(src); {
		switch {
		case src[j] == '\\':
			j += 2
		case src[j] == '`':
			return j + 1
		case src[j] == '$' && j+1 < len(src) && src[j+1] == '{':
			j = skipExpression(src, j+2)
		default:
			j++
		}
	}
	return len(src)
}

// skipExpression returns the offset after the brace closing a template
// substitution that starts at i.
func skipExpression(src string, i int) int {
	depth := 1
	for j := i; j < len(src); {
		c := src[j]
		switch {
		case c == '{':
			depth++
			j++
		case c == '}':
			depth--
			j++
			if depth == 0 {
				return j
			}
		case c == '\'' || c == '"':
			j = scanQuoted(src, j)
		case c == '`':
			j = scanTemplate(src, j)
		case c == '/' && j+1 < len(src) && src[j+1] == '/':
			j = skipLine(src, j)
		case c == '/' && j+1 < len(src) && src[j+1] == '*':
			j = skipBlockComment(src, j)
		default:
			j++
		}
	}
	return len(src)
}

// matchClosing returns the index of the token closing the bracket at open,
// counting only that bracket pair, or -1.
func matchClosing(tokens []token, open int, opening, closing string) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		if tokens[i].kind != punctToken {
			continue
		}
		switch tokens[i].text {
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// hasSequence reports whether texts appear as consecutive tokens.
func hasSequence(tokens []token, texts ...string) bool {
	return indexSequence(tokens, 0, texts...) >= 0
}

func indexSequence(tokens []token, from int, texts ...string) int {
	for i := from; i+len(texts) <= len(tokens); i++ {
		matched := true
		for j, text := range texts {
			if tokens[i+j].kind == stringToken || tokens[i+j].kind == templateToken || tokens[i+j].text != text {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}
