// Package sourcefile discovers the markup source files that get localized.
package sourcefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

// Kind is the kind of source tree a file belongs to.
type Kind string

const (
	KindComponents Kind = "components"
	KindPages      Kind = "pages"
)

var (
	_        pflag.Value = (*Kind)(nil)
	AllKinds             = []Kind{KindComponents, KindPages}
)

func (k *Kind) Set(val string) error {
	for _, kind := range AllKinds {
		if val == string(kind) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("invalid kind: %s", val)
}

func (k Kind) String() string {
	return string(k)
}

func (k *Kind) Type() string {
	return "Kind"
}

// Singular returns the singular form used in dictionary field names, e.g. "component".
func (k Kind) Singular() string {
	return strings.TrimSuffix(string(k), "s")
}

// PathField is the dictionary field holding the originating source path,
// e.g. "componentPath" or "pagePath".
func (k Kind) PathField() string {
	return k.Singular() + "Path"
}

// Extensions are the recognized markup source suffixes.
var Extensions = []string{".js", ".jsx", ".tsx"}

// skipDirs contains directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".cache":       true,
	"public":       true,
}

// IsSource reports whether the path has a recognized extension.
func IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsTypeScript reports whether the file accepts type annotations.
func IsTypeScript(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".tsx" || ext == ".ts"
}

// Stem returns the file name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Find returns the source files under root, sorted by path.
// A missing root yields no files.
func Find(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("filepath.WalkDir(%s) > %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
