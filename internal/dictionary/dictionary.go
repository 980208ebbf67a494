// Package dictionary reads and writes the per-file JSON dictionaries under a
// language-scoped tree: <base>/<language>/<kind>/<stem>.json.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/at-ishikawa/l10nkit/internal/extractor"
	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
)

// TimestampLayout is the ISO-8601 layout with millisecond precision used for
// lastModified and the run tracker.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Dictionary is the persisted content of one source file in one language.
type Dictionary struct {
	Title        string
	Kind         sourcefile.Kind
	OriginPath   string
	LastModified time.Time
	Description  string
	// Content maps keys to translatable values (string, *Object or []any).
	Content *Object
}

// FromEntries builds the source-language dictionary of an extraction run.
func FromEntries(kind sourcefile.Kind, originPath string, entries []extractor.Entry, now time.Time) Dictionary {
	content := NewObject()
	for _, entry := range entries {
		content.Set(entry.Key, entry.Text)
	}
	return Dictionary{
		Title:        sourcefile.Stem(originPath),
		Kind:         kind,
		OriginPath:   originPath,
		LastModified: now,
		Content:      content,
	}
}

// Tree converts the dictionary into its JSON value tree.
func (d Dictionary) Tree() *Object {
	meta := NewObject()
	meta.Set("description", d.Description)

	content := d.Content
	if content == nil {
		content = NewObject()
	}

	tree := NewObject()
	tree.Set("title", d.Title)
	tree.Set(d.Kind.PathField(), d.OriginPath)
	tree.Set("lastModified", d.LastModified.UTC().Format(TimestampLayout))
	tree.Set("meta", meta)
	tree.Set("content", content)
	return tree
}

// Path returns where the dictionary of a stem lives for a language.
func Path(baseDir, language string, kind sourcefile.Kind, stem string) string {
	return filepath.Join(baseDir, language, string(kind), stem+".json")
}

// Write serializes d to path, creating parent directories.
func Write(path string, d Dictionary) error {
	return WriteValue(path, d.Tree())
}

// WriteValue serializes any value tree to path, creating parent directories.
func WriteValue(path string, value any) error {
	data, err := Encode(value)
	if err != nil {
		return fmt.Errorf("Encode(%s) > %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}

// ReadValue reads a JSON file into an ordered value tree.
func ReadValue(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	value, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("Decode(%s) > %w", path, err)
	}
	return value, nil
}

// ReadContent reads the content mapping of a dictionary file.
func ReadContent(path string) (*Object, error) {
	value, err := ReadValue(path)
	if err != nil {
		return nil, err
	}
	tree, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("%s: dictionary is not an object", path)
	}
	raw, ok := tree.Get("content")
	if !ok {
		return nil, fmt.Errorf("%s: dictionary has no content", path)
	}
	content, ok := raw.(*Object)
	if !ok {
		return nil, fmt.Errorf("%s: content is not an object", path)
	}
	return content, nil
}
