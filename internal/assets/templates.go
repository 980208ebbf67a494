package assets

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/language-effect.js.go.tmpl
var fallbackEffectTemplate string

const effectTemplateName = "language-effect.js.go.tmpl"

// ContentLoader is one entry of the language → dictionary table of the effect.
type ContentLoader struct {
	Language string
	// Path is the import path of the dictionary, relative to the source file.
	Path string
}

// EffectTemplate is the data of the language-change effect block.
type EffectTemplate struct {
	TypeScript bool
	Loaders    []ContentLoader
}

// ParseEffectTemplate parses the template at templatePath, or the embedded
// one when templatePath is empty, missing or invalid.
func ParseEffectTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, fallbackEffectTemplate)
}

// DefaultEffectTemplate returns the embedded effect template.
func DefaultEffectTemplate() *template.Template {
	return template.Must(template.New(effectTemplateName).Parse(fallbackEffectTemplate))
}

// RenderEffect executes tmpl and returns the block without a trailing newline.
func RenderEffect(tmpl *template.Template, data EffectTemplate) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("tmpl.Execute > %w", err)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func parseTemplateWithFallback(templatePath string, fallbackTemplate string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(effectTemplateName).Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
