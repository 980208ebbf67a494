// Package extraction runs extract and restore over one source kind:
// snapshot, extract, write the dictionary, rewrite the source.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/at-ishikawa/l10nkit/internal/assets"
	"github.com/at-ishikawa/l10nkit/internal/backup"
	"github.com/at-ishikawa/l10nkit/internal/dictionary"
	"github.com/at-ishikawa/l10nkit/internal/extractor"
	"github.com/at-ishikawa/l10nkit/internal/rewriter"
	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
)

// Options locates the trees of one kind.
type Options struct {
	Kind            sourcefile.Kind
	SourceDir       string
	DictionaryDir   string
	SourceLanguage  string
	TargetLanguages []string
	EffectTemplate  *template.Template
}

// Result counts the outcome per source file.
type Result struct {
	// Extracted files had their dictionary written.
	Extracted int
	// Rewritten files were bound to their dictionary.
	Rewritten int
	// NotRewritten files have a dictionary but no framework import.
	NotRewritten int
	// Skipped files were already rewritten or share a stem with another file.
	Skipped int
	Failed  int
}

// Pipeline extracts and restores the sources of one kind.
type Pipeline struct {
	opts  Options
	store *backup.Store
	now   func() time.Time
}

// NewPipeline returns a pipeline writing snapshots to store.
func NewPipeline(opts Options, store *backup.Store) *Pipeline {
	return &Pipeline{
		opts:  opts,
		store: store,
		now:   time.Now,
	}
}

type outcome int

const (
	outcomeRewritten outcome = iota
	outcomeNotRewritten
	outcomeSkipped
)

// Extract processes every source file. A failing file is logged and counted;
// only a failure to list the sources is returned.
func (p *Pipeline) Extract(ctx context.Context) (Result, error) {
	var result Result
	files, err := sourcefile.Find(p.opts.SourceDir)
	if err != nil {
		return result, fmt.Errorf("sourcefile.Find > %w", err)
	}
	if len(files) == 0 {
		slog.Default().Info("no source files found", slog.String("directory", p.opts.SourceDir))
		return result, nil
	}

	stems := make(map[string]string)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := slog.Default().With(slog.String("path", file))

		stem := sourcefile.Stem(file)
		if first, ok := stems[stem]; ok {
			logger.Warn("skipped a file whose dictionary name is already used", slog.String("usedBy", first))
			result.Skipped++
			continue
		}
		stems[stem] = file

		got, err := p.extractFile(file, stem)
		if err != nil {
			logger.Error("failed to extract", slog.Any("error", err))
			result.Failed++
			continue
		}
		switch got {
		case outcomeSkipped:
			logger.Warn("skipped an already rewritten file; restore it first to extract again")
			result.Skipped++
		case outcomeNotRewritten:
			result.Extracted++
			result.NotRewritten++
		case outcomeRewritten:
			result.Extracted++
			result.Rewritten++
		}
	}
	return result, nil
}

func (p *Pipeline) extractFile(path string, stem string) (outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("os.Stat > %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("os.ReadFile > %w", err)
	}
	source := string(data)
	if rewriter.IsRewritten(source) {
		return outcomeSkipped, nil
	}

	if err := p.store.Snapshot(path); err != nil {
		return 0, fmt.Errorf("store.Snapshot > %w", err)
	}

	entries := extractor.Extract(source)
	dictionaryPath := dictionary.Path(p.opts.DictionaryDir, p.opts.SourceLanguage, p.opts.Kind, stem)
	d := dictionary.FromEntries(p.opts.Kind, originPath(path), entries, p.now())
	if err := dictionary.Write(dictionaryPath, d); err != nil {
		return 0, fmt.Errorf("dictionary.Write > %w", err)
	}
	slog.Default().Debug("wrote a dictionary",
		slog.String("path", dictionaryPath),
		slog.Int("entries", len(entries)),
	)

	opts, err := p.rewriteOptions(path, dictionaryPath, stem)
	if err != nil {
		return 0, err
	}
	rewritten, err := rewriter.Rewrite(source, entries, opts)
	if errors.Is(err, rewriter.ErrNoFrameworkImport) {
		slog.Default().Warn("no react import found, the source is left unchanged", slog.String("path", path))
		return outcomeNotRewritten, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rewriter.Rewrite > %w", err)
	}
	if !rewritten.DeclarationFound {
		slog.Default().Warn("could not find a component declaration to add the content state",
			slog.String("path", path),
		)
	}

	if err := os.WriteFile(path, []byte(rewritten.Source), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("os.WriteFile > %w", err)
	}
	slog.Default().Debug("rewrote a source",
		slog.String("path", path),
		slog.Int("substitutions", rewritten.Substitutions),
	)
	return outcomeRewritten, nil
}

func (p *Pipeline) rewriteOptions(path, dictionaryPath, stem string) (rewriter.Options, error) {
	importPath, err := relativeImport(path, dictionaryPath)
	if err != nil {
		return rewriter.Options{}, err
	}
	opts := rewriter.Options{
		ImportPath:     importPath,
		TypeScript:     sourcefile.IsTypeScript(path),
		Page:           p.opts.Kind == sourcefile.KindPages,
		EffectTemplate: p.opts.EffectTemplate,
	}
	for _, language := range p.opts.TargetLanguages {
		if language == p.opts.SourceLanguage {
			continue
		}
		loaderPath, err := relativeImport(path, dictionary.Path(p.opts.DictionaryDir, language, p.opts.Kind, stem))
		if err != nil {
			return rewriter.Options{}, err
		}
		opts.Loaders = append(opts.Loaders, assets.ContentLoader{Language: language, Path: loaderPath})
	}
	return opts, nil
}

// Restore copies the snapshots of the kind back over the source tree.
func (p *Pipeline) Restore() (backup.RestoreResult, error) {
	return p.store.Restore(p.opts.SourceDir)
}

// relativeImport returns the import path of target from the directory of
// source, always starting with ./ or ../.
func relativeImport(source, target string) (string, error) {
	sourceDir, err := filepath.Abs(filepath.Dir(source))
	if err != nil {
		return "", fmt.Errorf("filepath.Abs(%s) > %w", source, err)
	}
	targetPath, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("filepath.Abs(%s) > %w", target, err)
	}
	rel, err := filepath.Rel(sourceDir, targetPath)
	if err != nil {
		return "", fmt.Errorf("filepath.Rel > %w", err)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel, nil
}

// originPath is the path recorded in a dictionary, ./ prefixed when relative.
func originPath(path string) string {
	slashed := filepath.ToSlash(path)
	if filepath.IsAbs(path) || strings.HasPrefix(slashed, "./") || strings.HasPrefix(slashed, "../") {
		return slashed
	}
	return "./" + slashed
}
