// Package rewriter binds a component source to its dictionary: it imports
// the state and effect hooks and the source-language dictionary, declares the
// content state, subscribes to language changes and replaces element text
// with content references.
package rewriter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/at-ishikawa/l10nkit/internal/assets"
	"github.com/at-ishikawa/l10nkit/internal/extractor"
)

const (
	contentImportName   = "defaultContent"
	languageChangeEvent = "languageChange"
	stateDeclaration    = "  const [content, setContent] = useState(defaultContent.content);"
)

// ErrNoFrameworkImport is returned for sources that do not import react.
var ErrNoFrameworkImport = errors.New("no react import found")

// Options configures the inserted code of one source file.
type Options struct {
	// ImportPath is the source-language dictionary, relative to the file.
	ImportPath string
	// Loaders are the target-language dictionaries, relative to the file.
	Loaders    []assets.ContentLoader
	TypeScript bool
	// Page suppresses substitutions from the head export on.
	Page bool
	// EffectTemplate defaults to the embedded template.
	EffectTemplate *template.Template
}

// Result is a rewritten source.
type Result struct {
	Source        string
	Substitutions int
	// DeclarationFound is false when the state and effect could not be
	// inserted because no component declaration was recognized.
	DeclarationFound bool
}

// Rewrite returns src bound to the entries' dictionary. Each insertion is
// guarded by a presence check, so rewriting a rewritten source changes nothing.
func Rewrite(src string, entries []extractor.Entry, opts Options) (Result, error) {
	tokens := scan(src)
	imports := frameworkImports(tokens, findImports(tokens))
	if len(imports) == 0 {
		return Result{Source: src}, ErrNoFrameworkImport
	}
	src = ensureHooks(src, tokens, imports[0], missingHooks(imports))

	tokens = scan(src)
	decls := findImports(tokens)
	if !hasContentImport(tokens, decls) {
		src = insertContentImport(src, decls, opts.ImportPath)
		tokens = scan(src)
	}

	result := Result{DeclarationFound: true}
	markup, tail := src, ""
	if opts.Page {
		if head := findHeadExport(tokens); head >= 0 {
			markup, tail = src[:head], src[head:]
		}
	}
	markup, result.Substitutions = substitute(markup, entries)
	src = markup + tail
	tokens = scan(src)

	// The inserted code is never substituted.
	needState := !hasStateDeclaration(tokens)
	needEffect := !hasLanguageListener(tokens)
	if needState || needEffect {
		body := findComponentBody(tokens)
		if body < 0 {
			result.DeclarationFound = false
		} else {
			insertion, err := bodyInsertion(needState, needEffect, opts)
			if err != nil {
				return Result{}, err
			}
			offset := tokens[body].end
			src = src[:offset] + insertion + src[offset:]
		}
	}
	result.Source = src
	return result, nil
}

func bodyInsertion(needState, needEffect bool, opts Options) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n")
	if needState {
		sb.WriteString(stateDeclaration + "\n")
	}
	if needEffect {
		tmpl := opts.EffectTemplate
		if tmpl == nil {
			tmpl = assets.DefaultEffectTemplate()
		}
		effect, err := assets.RenderEffect(tmpl, assets.EffectTemplate{
			TypeScript: opts.TypeScript,
			Loaders:    opts.Loaders,
		})
		if err != nil {
			return "", fmt.Errorf("assets.RenderEffect > %w", err)
		}
		if needState {
			sb.WriteString("\n")
		}
		sb.WriteString(effect + "\n")
	}
	return sb.String(), nil
}

// substitute replaces each entry's text found as element content with a
// reference into the content state. A '>' closing an arrow does not open
// element content.
func substitute(src string, entries []extractor.Entry) (string, int) {
	total := 0
	for _, entry := range entries {
		for _, source := range entry.Sources {
			if source == "" {
				continue
			}
			pattern := regexp.MustCompile(`(^|[^=])>\s*` + regexp.QuoteMeta(source) + `\s*<`)
			matches := len(pattern.FindAllStringIndex(src, -1))
			if matches == 0 {
				continue
			}
			src = pattern.ReplaceAllString(src, "${1}>{content."+entry.Key+"}<")
			total += matches
		}
	}
	return src, total
}

func hasStateDeclaration(tokens []token) bool {
	return hasSequence(tokens, "const", "[", "content", ",", "setContent", "]")
}

func hasLanguageListener(tokens []token) bool {
	for _, t := range tokens {
		if t.kind == stringToken && unquote(t.text) == languageChangeEvent {
			return true
		}
	}
	return false
}

// IsRewritten reports whether src already carries the content binding.
func IsRewritten(src string) bool {
	tokens := scan(src)
	return hasStateDeclaration(tokens) || hasContentImport(tokens, findImports(tokens))
}
