// Package datasync translates the source-language dictionaries changed since
// the last run into every target language.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/at-ishikawa/l10nkit/internal/config"
	"github.com/at-ishikawa/l10nkit/internal/dictionary"
	"github.com/at-ishikawa/l10nkit/internal/tracker"
)

type Status string

const (
	StatusTranslated Status = "translated"
	StatusUpToDate   Status = "up-to-date"
)

// Translator translates a dictionary value tree into a target language.
type Translator interface {
	Translate(ctx context.Context, value any, target string) (any, error)
}

type Options struct {
	DictionaryDirectory string
	SourceLanguage      string
	TargetLanguages     []string
}

// Result counts (file, language) pairs.
type Result struct {
	Files      int
	Translated int
	Failed     int
	Status     Status
}

type Synchronizer struct {
	dictionaryDirectory string
	sourceLanguage      string
	targetLanguages     []string
	translator          Translator
	tracker             *tracker.Tracker
	now                 func() time.Time

	// OnProgress is called after each (file, language) pair.
	OnProgress func(done, total int)
}

// NewSynchronizer drops the source language from the targets and fails when
// nothing is left to translate into.
func NewSynchronizer(opts Options, translator Translator, runTracker *tracker.Tracker) (*Synchronizer, error) {
	var targets []string
	for _, language := range opts.TargetLanguages {
		if language == opts.SourceLanguage || slices.Contains(targets, language) {
			continue
		}
		targets = append(targets, language)
	}
	if len(targets) == 0 {
		return nil, config.ErrNoTargetLanguages
	}

	return &Synchronizer{
		dictionaryDirectory: opts.DictionaryDirectory,
		sourceLanguage:      opts.SourceLanguage,
		targetLanguages:     targets,
		translator:          translator,
		tracker:             runTracker,
		now:                 time.Now,
	}, nil
}

func (s *Synchronizer) TargetLanguages() []string {
	return s.targetLanguages
}

func (s *Synchronizer) SourceDirectory() string {
	return filepath.Join(s.dictionaryDirectory, s.sourceLanguage)
}

// Sync translates every dictionary modified after the last run. The tracker
// is stamped once all pairs are processed, whether or not they succeeded.
func (s *Synchronizer) Sync(ctx context.Context) (Result, error) {
	if err := s.ensureDirectories(); err != nil {
		return Result{}, err
	}

	lastRun, ok, err := s.tracker.LastRun()
	if err != nil {
		return Result{}, fmt.Errorf("tracker.LastRun() > %w", err)
	}
	if !ok {
		lastRun = time.Unix(0, 0)
	}

	files, err := s.modifiedSince(lastRun)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		slog.Default().Debug("dictionaries are up to date", slog.Time("lastRun", lastRun))
		return Result{Status: StatusUpToDate}, nil
	}

	result := Result{Files: len(files), Status: StatusTranslated}
	total := len(files) * len(s.targetLanguages)
	done := 0
	progress := func() {
		done++
		if s.OnProgress != nil {
			s.OnProgress(done, total)
		}
	}

	for _, file := range files {
		source, err := dictionary.ReadValue(file)
		if err != nil {
			slog.Default().Error("failed to read a dictionary", slog.String("path", file), slog.Any("error", err))
			for range s.targetLanguages {
				result.Failed++
				progress()
			}
			continue
		}

		for _, language := range s.targetLanguages {
			if err := s.translateFile(ctx, file, source, language); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return result, ctxErr
				}
				slog.Default().Error("failed to translate a dictionary",
					slog.String("path", file),
					slog.String("language", language),
					slog.Any("error", err),
				)
				result.Failed++
			} else {
				result.Translated++
			}
			progress()
		}
	}

	if err := s.tracker.Stamp(s.now()); err != nil {
		return result, fmt.Errorf("tracker.Stamp() > %w", err)
	}
	return result, nil
}

func (s *Synchronizer) translateFile(ctx context.Context, file string, source any, language string) error {
	rel, err := filepath.Rel(s.SourceDirectory(), file)
	if err != nil {
		return fmt.Errorf("filepath.Rel(%s) > %w", file, err)
	}

	translated, err := s.translator.Translate(ctx, source, language)
	if err != nil {
		return fmt.Errorf("translator.Translate(%s) > %w", language, err)
	}

	output := filepath.Join(s.dictionaryDirectory, language, rel)
	if err := dictionary.WriteValue(output, translated); err != nil {
		return fmt.Errorf("dictionary.WriteValue > %w", err)
	}
	slog.Default().Info("translated a dictionary", slog.String("path", output))
	return nil
}

func (s *Synchronizer) ensureDirectories() error {
	directories := []string{s.dictionaryDirectory, s.SourceDirectory()}
	for _, language := range s.targetLanguages {
		directories = append(directories, filepath.Join(s.dictionaryDirectory, language))
	}
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}
	return nil
}

// modifiedSince lists the source-language dictionaries whose modification
// time is strictly after lastRun.
func (s *Synchronizer) modifiedSince(lastRun time.Time) ([]string, error) {
	trackerPath, err := filepath.Abs(s.tracker.Path())
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs(%s) > %w", s.tracker.Path(), err)
	}

	var files []string
	err = filepath.WalkDir(s.SourceDirectory(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil && abs == trackerPath {
			return nil
		}
		info, err := d.Info()
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.ModTime().After(lastRun) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("filepath.WalkDir(%s) > %w", s.SourceDirectory(), err)
	}
	return files, nil
}
