package rewriter

import (
	"strings"
)

const frameworkModule = "react"

// hooks are the framework bindings the inserted code relies on, in the order
// they are added to the import.
var hooks = []string{"useState", "useEffect"}

// importDecl is a static import statement.
type importDecl struct {
	start int
	// end is past the module string, or past the semicolon when there is one.
	end int
	// clause is the token range between `import` and `from`.
	clauseStart, clauseEnd int
	module                 string
	quote                  byte
	semicolon              bool
	typeOnly               bool
}

// findImports returns the static import statements of a source in order.
// Dynamic import() calls and import.meta are not statements.
func findImports(tokens []token) []importDecl {
	var decls []importDecl
	for i := 0; i < len(tokens); i++ {
		if !tokens[i].is(identToken, "import") || i+1 >= len(tokens) {
			continue
		}
		if i > 0 && tokens[i-1].is(punctToken, ".") {
			continue
		}
		next := tokens[i+1]
		if next.is(punctToken, "(") || next.is(punctToken, ".") {
			continue
		}

		var (
			decl      importDecl
			moduleTok int
		)
		if next.kind == stringToken {
			decl = importDecl{clauseStart: i + 1, clauseEnd: i + 1}
			moduleTok = i + 1
		} else {
			from := -1
			for j := i + 2; j+1 < len(tokens); j++ {
				if tokens[j].is(identToken, "import") || tokens[j].is(punctToken, ";") {
					break
				}
				if tokens[j].is(identToken, "from") && tokens[j+1].kind == stringToken {
					from = j
					break
				}
			}
			if from < 0 {
				continue
			}
			decl = importDecl{clauseStart: i + 1, clauseEnd: from}
			moduleTok = from + 1
			decl.typeOnly = next.is(identToken, "type") && i+2 < from && !tokens[i+2].is(punctToken, ",")
		}

		module := tokens[moduleTok]
		decl.start = tokens[i].start
		decl.end = module.end
		decl.quote = module.text[0]
		decl.module = unquote(module.text)
		if moduleTok+1 < len(tokens) && tokens[moduleTok+1].is(punctToken, ";") {
			decl.semicolon = true
			decl.end = tokens[moduleTok+1].end
		}
		decls = append(decls, decl)
		i = moduleTok
	}
	return decls
}

func unquote(s string) string {
	if len(s) >= 2 && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return strings.TrimLeft(s, `'"`)
}

// frameworkImport is the parsed clause of an import from the framework module.
type frameworkImport struct {
	decl        importDecl
	defaultName token
	namespace   string
	// named holds the imported (not local) names of the braced list.
	named []string
	// openBrace and closeBrace are token indexes, -1 without a braced list.
	openBrace, closeBrace int
}

func parseFrameworkImport(tokens []token, decl importDecl) frameworkImport {
	fi := frameworkImport{decl: decl, openBrace: -1, closeBrace: -1}
	p := decl.clauseStart
	if p < decl.clauseEnd && tokens[p].kind == identToken {
		fi.defaultName = tokens[p]
		p++
		if p < decl.clauseEnd && tokens[p].is(punctToken, ",") {
			p++
		}
	}
	if p+2 < decl.clauseEnd && tokens[p].is(punctToken, "*") && tokens[p+1].is(identToken, "as") {
		fi.namespace = tokens[p+2].text
		p += 3
	}
	if p < decl.clauseEnd && tokens[p].is(punctToken, "{") {
		closing := matchClosing(tokens[:decl.clauseEnd], p, "{", "}")
		if closing < 0 {
			return fi
		}
		fi.openBrace, fi.closeBrace = p, closing
		itemStart := true
		for j := p + 1; j < closing; j++ {
			t := tokens[j]
			if t.is(punctToken, ",") {
				itemStart = true
				continue
			}
			if !itemStart || t.kind != identToken {
				continue
			}
			if t.text == "type" && j+1 < closing && tokens[j+1].kind == identToken && tokens[j+1].text != "as" {
				continue
			}
			fi.named = append(fi.named, t.text)
			itemStart = false
		}
	}
	return fi
}

func (fi frameworkImport) recognized() bool {
	return fi.defaultName.text != "" || fi.namespace != "" || fi.openBrace >= 0
}

// frameworkImports returns the value imports of the framework module.
func frameworkImports(tokens []token, decls []importDecl) []frameworkImport {
	var imports []frameworkImport
	for _, decl := range decls {
		if decl.module != frameworkModule || decl.typeOnly {
			continue
		}
		fi := parseFrameworkImport(tokens, decl)
		if fi.recognized() {
			imports = append(imports, fi)
		}
	}
	return imports
}

// missingHooks returns the hooks none of the framework imports bind.
func missingHooks(imports []frameworkImport) []string {
	bound := make(map[string]bool)
	for _, fi := range imports {
		for _, name := range fi.named {
			bound[name] = true
		}
	}
	var missing []string
	for _, hook := range hooks {
		if !bound[hook] {
			missing = append(missing, hook)
		}
	}
	return missing
}

// ensureHooks extends the first framework import with the missing hooks.
func ensureHooks(src string, tokens []token, fi frameworkImport, missing []string) string {
	if len(missing) == 0 {
		return src
	}
	names := strings.Join(missing, ", ")
	quote := string(fi.decl.quote)
	semicolon := ""
	if fi.decl.semicolon {
		semicolon = ";"
	}

	switch {
	case fi.namespace != "" && fi.defaultName.text == "":
		// `* as X` cannot take named bindings: X becomes the default binding.
		statement := "import " + fi.namespace + ", { " + names + " } from " + quote + frameworkModule + quote + semicolon
		return src[:fi.decl.start] + statement + src[fi.decl.end:]
	case fi.namespace != "":
		statement := "\nimport { " + names + " } from " + quote + frameworkModule + quote + semicolon
		return src[:fi.decl.end] + statement + src[fi.decl.end:]
	case fi.openBrace >= 0:
		open, closing := tokens[fi.openBrace], tokens[fi.closeBrace]
		return src[:open.end] + extendNamedList(src[open.end:closing.start], missing) + src[closing.start:]
	default:
		return src[:fi.defaultName.end] + ", { " + names + " }" + src[fi.defaultName.end:]
	}
}

// extendNamedList appends names to the inside of a braced import list,
// keeping its single-line or one-per-line layout.
func extendNamedList(inner string, names []string) string {
	existing := strings.TrimRight(strings.TrimSpace(inner), ",")
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return " " + strings.Join(names, ", ") + " "
	}
	if !strings.Contains(inner, "\n") {
		return " " + existing + ", " + strings.Join(names, ", ") + " "
	}

	indent := "  "
	for _, line := range strings.Split(inner, "\n") {
		if trimmed := strings.TrimLeft(line, " \t"); trimmed != "" {
			indent = line[:len(line)-len(trimmed)]
			break
		}
	}
	closingIndent := inner[strings.LastIndex(inner, "\n")+1:]
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(strings.TrimRight(inner, " \t\n"), ","))
	for _, name := range names {
		sb.WriteString(",\n" + indent + name)
	}
	sb.WriteString(",\n" + closingIndent)
	return sb.String()
}

// hasContentImport reports whether an import already binds defaultContent.
func hasContentImport(tokens []token, decls []importDecl) bool {
	for _, decl := range decls {
		for i := decl.clauseStart; i < decl.clauseEnd; i++ {
			if tokens[i].is(identToken, contentImportName) {
				return true
			}
		}
	}
	return false
}

// insertContentImport adds the dictionary import after the last import
// statement, or at the top of a file without imports.
func insertContentImport(src string, decls []importDecl, importPath string) string {
	statement := "import " + contentImportName + " from '" + importPath + "';"
	if len(decls) == 0 {
		return statement + "\n" + src
	}
	end := decls[len(decls)-1].end
	return src[:end] + "\n" + statement + src[end:]
}
