package rewriter

import (
	"unicode"
	"unicode/utf8"
)

// shape matches a component declaration starting at token i and returns the
// index of the brace opening its body, or -1.
type shape func(tokens []token, i int) int

// shapes are tried in order; the first shape matching anywhere in the file
// wins over later shapes matching earlier in the file.
var shapes = []shape{
	// const Name: React.FC = (...) => {
	func(tokens []token, i int) int {
		p := matchConstName(tokens, i)
		p = expect(tokens, p, ":", "React", ".", "FC", "=")
		return matchArrowBody(tokens, p)
	},
	// const Name: React.FC<Props> = (...) => {
	func(tokens []token, i int) int {
		p := matchConstName(tokens, i)
		p = expect(tokens, p, ":", "React", ".", "FC")
		p = skipBalanced(tokens, p, "<", ">")
		p = expect(tokens, p, "=")
		return matchArrowBody(tokens, p)
	},
	// const Name = (...): JSX.Element => {
	func(tokens []token, i int) int {
		p := matchConstName(tokens, i)
		p = expect(tokens, p, "=")
		p = skipBalanced(tokens, p, "(", ")")
		p = expect(tokens, p, ":", "JSX", ".", "Element", "=>", "{")
		return p - 1
	},
	// const Name = (...) => {
	func(tokens []token, i int) int {
		p := matchConstName(tokens, i)
		p = expect(tokens, p, "=")
		return matchArrowBody(tokens, p)
	},
	// [export [default]] function Name(...) {
	func(tokens []token, i int) int {
		if !tokens[i].is(identToken, "function") {
			return -1
		}
		p := matchComponentName(tokens, i+1)
		p = skipBalanced(tokens, p, "(", ")")
		if p >= 0 && p < len(tokens) && tokens[p].is(punctToken, ":") {
			p = expect(tokens, p, ":", "JSX", ".", "Element")
		}
		p = expect(tokens, p, "{")
		return p - 1
	},
}

// findComponentBody returns the index of the brace opening the body of the
// first recognized component declaration, or -1.
func findComponentBody(tokens []token) int {
	for _, match := range shapes {
		for i := range tokens {
			if body := match(tokens, i); body >= 0 {
				return body
			}
		}
	}
	return -1
}

func matchConstName(tokens []token, i int) int {
	if !tokens[i].is(identToken, "const") {
		return -1
	}
	return matchComponentName(tokens, i+1)
}

func matchComponentName(tokens []token, i int) int {
	if i < 0 || i >= len(tokens) || tokens[i].kind != identToken {
		return -1
	}
	first, _ := utf8.DecodeRuneInString(tokens[i].text)
	if !unicode.IsUpper(first) {
		return -1
	}
	return i + 1
}

// matchArrowBody matches `(...) => {` at p.
func matchArrowBody(tokens []token, p int) int {
	p = skipBalanced(tokens, p, "(", ")")
	p = expect(tokens, p, "=>", "{")
	if p < 0 {
		return -1
	}
	return p - 1
}

// expect matches consecutive punctuation or identifier texts at p and returns
// the index after them, or -1.
func expect(tokens []token, p int, texts ...string) int {
	if p < 0 {
		return -1
	}
	for _, text := range texts {
		if p >= len(tokens) {
			return -1
		}
		t := tokens[p]
		if (t.kind != punctToken && t.kind != identToken) || t.text != text {
			return -1
		}
		p++
	}
	return p
}

// skipBalanced matches a bracketed group opening at p and returns the index
// after its closing bracket, or -1.
func skipBalanced(tokens []token, p int, opening, closing string) int {
	if p < 0 || p >= len(tokens) || !tokens[p].is(punctToken, opening) {
		return -1
	}
	end := matchClosing(tokens, p, opening, closing)
	if end < 0 {
		return -1
	}
	return end + 1
}

// findHeadExport returns the byte offset of a page's head export, or -1.
func findHeadExport(tokens []token) int {
	offset := -1
	for _, form := range [][]string{
		{"export", "const", "Head"},
		{"export", "function", "Head"},
	} {
		i := indexSequence(tokens, 0, form...)
		if i >= 0 && (offset < 0 || tokens[i].start < offset) {
			offset = tokens[i].start
		}
	}
	return offset
}
