package extraction

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/l10nkit/internal/backup"
	"github.com/at-ishikawa/l10nkit/internal/dictionary"
	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
)

const heroSource = `import React from "react";

const Hero: React.FC = () => {
  return (
    <div>
      <h1>Welcome</h1>
      <button>OK</button>
      <button>OK</button>
    </div>
  );
};

export default Hero;
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newPipeline(t *testing.T, root string) *Pipeline {
	t.Helper()
	p := NewPipeline(Options{
		Kind:            sourcefile.KindComponents,
		SourceDir:       filepath.Join(root, "src", "components"),
		DictionaryDir:   filepath.Join(root, "localization", "language-files"),
		SourceLanguage:  "en",
		TargetLanguages: []string{"fr", "es"},
	}, backup.NewStore(filepath.Join(root, "localization", "original-files"), sourcefile.KindComponents))
	p.now = func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return p
}

func TestPipeline_ExtractRestore(t *testing.T) {
	root := t.TempDir()
	components := filepath.Join(root, "src", "components")
	hero := filepath.Join(components, "hero.tsx")
	nav := filepath.Join(components, "nav.jsx")
	navSource := "import { Link } from \"gatsby\";\n\nexport const Nav = () => <nav><Link to=\"/\">Home</Link></nav>;\n"
	writeFile(t, hero, heroSource)
	writeFile(t, nav, navSource)
	writeFile(t, filepath.Join(components, "nested", "hero.jsx"), heroSource)

	p := newPipeline(t, root)
	result, err := p.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Extracted: 2, Rewritten: 1, NotRewritten: 1, Skipped: 1}, result)

	content, err := dictionary.ReadContent(filepath.Join(root, "localization", "language-files", "en", "components", "hero.json"))
	require.NoError(t, err)
	assert.Equal(t, 2, content.Len())
	text1, _ := content.Get("text_1")
	text2, _ := content.Get("text_2")
	assert.Equal(t, "Welcome", text1)
	assert.Equal(t, "OK", text2)
	assert.FileExists(t, filepath.Join(root, "localization", "language-files", "en", "components", "nav.json"))

	rewritten, err := os.ReadFile(hero)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "import defaultContent from '../../localization/language-files/en/components/hero.json';")
	assert.Contains(t, string(rewritten), "'fr': () => import('../../localization/language-files/fr/components/hero.json'),")
	assert.Contains(t, string(rewritten), "'es': () => import('../../localization/language-files/es/components/hero.json'),")
	assert.Contains(t, string(rewritten), "<h1>{content.text_1}</h1>")
	assert.Equal(t, 2, strings.Count(string(rewritten), "<button>{content.text_2}</button>"))

	unchanged, err := os.ReadFile(nav)
	require.NoError(t, err)
	assert.Equal(t, navSource, string(unchanged))

	again, err := p.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Extracted: 1, NotRewritten: 1, Skipped: 2}, again)

	restored, err := p.Restore()
	require.NoError(t, err)
	assert.Equal(t, backup.RestoreResult{Restored: 2}, restored)

	original, err := os.ReadFile(hero)
	require.NoError(t, err)
	assert.Equal(t, heroSource, string(original))
}

func TestPipeline_Extract_emptyTree(t *testing.T) {
	p := newPipeline(t, t.TempDir())
	result, err := p.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestPipeline_Restore_noBackups(t *testing.T) {
	p := newPipeline(t, t.TempDir())
	_, err := p.Restore()
	assert.ErrorIs(t, err, backup.ErrNoBackups)
}

func TestPipeline_Extract_canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "components", "hero.tsx"), heroSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newPipeline(t, root).Extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelativeImport(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		want   string
	}{
		{
			name:   "parent directories",
			source: filepath.Join("src", "components", "hero.tsx"),
			target: filepath.Join("localization", "language-files", "en", "components", "hero.json"),
			want:   "../../localization/language-files/en/components/hero.json",
		},
		{
			name:   "same directory",
			source: filepath.Join("src", "hero.tsx"),
			target: filepath.Join("src", "hero.json"),
			want:   "./hero.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := relativeImport(tt.source, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOriginPath(t *testing.T) {
	assert.Equal(t, "./src/pages/index.jsx", originPath(filepath.Join("src", "pages", "index.jsx")))
	assert.Equal(t, "./src/pages/index.jsx", originPath("./src/pages/index.jsx"))
}
