// Package translation walks dictionary value trees and translates their
// string leaves with a remote Client.
package translation

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/l10nkit/internal/dictionary"
)

// slugKey marks a mapping value that is normalized into a URL slug after
// translation.
const slugKey = "slug"

var exclusionPatterns = []*regexp.Regexp{
	// dates and timestamps
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	// object ids
	regexp.MustCompile(`^[0-9a-f]{24}$`),
	regexp.MustCompile(`^\d+$`),
}

// IsExcluded reports whether text is data rather than prose and must be kept
// as is in every language.
func IsExcluded(text string) bool {
	for _, pattern := range exclusionPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return strings.Contains(text, "@") || strings.HasPrefix(text, "http")
}

// ValueTranslator translates value trees from one source language.
type ValueTranslator struct {
	client         Client
	sourceLanguage string
	concurrency    int
}

// NewValueTranslator returns a translator translating at most concurrency
// list elements at a time.
func NewValueTranslator(client Client, sourceLanguage string, concurrency int) *ValueTranslator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ValueTranslator{
		client:         client,
		sourceLanguage: sourceLanguage,
		concurrency:    concurrency,
	}
}

// Translate returns a copy of value with its qualifying strings translated
// into target. A string that fails to translate is kept untranslated, so the
// only error is the cancellation of ctx.
func (vt *ValueTranslator) Translate(ctx context.Context, value any, target string) (any, error) {
	return vt.translate(ctx, value, target, false)
}

func (vt *ValueTranslator) translate(ctx context.Context, value any, target string, slug bool) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		translated := make([]any, len(v))
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(vt.concurrency)
		for i, item := range v {
			g.Go(func() error {
				result, err := vt.translate(ctx, item, target, false)
				if err != nil {
					return err
				}
				translated[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return translated, nil
	case *dictionary.Object:
		translated := dictionary.NewObject()
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			result, err := vt.translate(ctx, pair.Value, target, pair.Key == slugKey)
			if err != nil {
				return nil, err
			}
			translated.Set(pair.Key, result)
		}
		return translated, nil
	case string:
		return vt.translateString(ctx, v, target, slug)
	default:
		return v, nil
	}
}

func (vt *ValueTranslator) translateString(ctx context.Context, text string, target string, slug bool) (any, error) {
	if strings.TrimSpace(text) == "" || IsExcluded(text) {
		return text, nil
	}

	translated, err := vt.client.Translate(ctx, Request{
		Text:   text,
		Source: vt.sourceLanguage,
		Target: target,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Default().Error("failed to translate a text, keeping the original",
			slog.String("text", text),
			slog.String("target", target),
			slog.Any("error", err),
		)
		return text, nil
	}
	if slug {
		return Slugify(translated), nil
	}
	return translated, nil
}
