// Package extractor collects the visible text of a markup source file and
// assigns each distinct text a positional key.
package extractor

import (
	"fmt"
	"html"
	"regexp"
	"slices"
	"strings"

	nethtml "golang.org/x/net/html"
)

// Entry is one extracted text.
type Entry struct {
	// Key is text_<n>, n being the 1-based position among distinct texts.
	Key string
	// Text is the trimmed text with character references decoded.
	Text string
	// Sources are the distinct spellings of Text as written in the file, in
	// order of first appearance. They differ only in character references.
	Sources []string
}

// attributeExpressionPattern matches name={expr} attributes, which the
// tokenizer cannot read.
var attributeExpressionPattern = regexp.MustCompile(`(\s+\w+)=\{([^}]+)\}`)

var bracketsOnlyPattern = regexp.MustCompile(`^[{}()\[\]]+$`)

// codeTokens mark text that is actually embedded code.
var codeTokens = []string{"{", "}", "&&", "=>"}

// Normalize rewrites attribute expressions into quoted attributes.
func Normalize(source string) string {
	return attributeExpressionPattern.ReplaceAllStringFunc(source, func(match string) string {
		groups := attributeExpressionPattern.FindStringSubmatch(match)
		value := strings.ReplaceAll(groups[2], `"`, `'`)
		return groups[1] + `="` + value + `"`
	})
}

type element struct {
	name string
	text strings.Builder
}

// Extract returns the distinct visible texts of source in document order.
//
// Elements are visited in the order their start tags appear; the text of an
// element is the concatenation of its direct text children.
func Extract(source string) []Entry {
	z := nethtml.NewTokenizer(strings.NewReader(Normalize(source)))

	var (
		elements []*element
		stack    []*element
	)
	for {
		tokenType := z.Next()
		switch tokenType {
		case nethtml.ErrorToken:
			// io.EOF: a string reader has no other read error.
			return collect(elements)
		case nethtml.StartTagToken:
			name, _ := z.TagName()
			e := &element{name: string(name)}
			elements = append(elements, e)
			stack = append(stack, e)
		case nethtml.EndTagToken:
			name, _ := z.TagName()
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == string(name) {
					stack = stack[:i]
					break
				}
			}
		case nethtml.TextToken:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(z.Raw())
			}
		}
	}
}

func collect(elements []*element) []Entry {
	var entries []Entry
	seen := make(map[string]int)
	for _, e := range elements {
		raw := strings.TrimSpace(e.text.String())
		if !IsTranslatable(raw) {
			continue
		}
		text := html.UnescapeString(raw)
		if i, ok := seen[text]; ok {
			if !slices.Contains(entries[i].Sources, raw) {
				entries[i].Sources = append(entries[i].Sources, raw)
			}
			continue
		}
		seen[text] = len(entries)
		entries = append(entries, Entry{
			Key:     fmt.Sprintf("text_%d", len(entries)+1),
			Text:    text,
			Sources: []string{raw},
		})
	}
	return entries
}

// IsTranslatable reports whether a trimmed text candidate is prose rather
// than markup-embedded code.
func IsTranslatable(text string) bool {
	if text == "" {
		return false
	}
	if bracketsOnlyPattern.MatchString(text) {
		return false
	}
	for _, token := range codeTokens {
		if strings.Contains(text, token) {
			return false
		}
	}
	return true
}
