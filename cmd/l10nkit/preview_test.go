package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/l10nkit/internal/testutil"
)

func TestPreviewCommand(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("TARGET_LANGUAGES", "")

	tmpDir := t.TempDir()
	server := newTranslateServer(t)
	cfgPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithTargetLanguages("fr", "de"), testutil.WithGoogleBaseURL(server.URL))
	testutil.CreateSourceFile(t, filepath.Join(tmpDir, "src", "components"), "Hero.jsx", testutil.HeroComponent)

	_, err := execute(t, "", "--config", cfgPath, "components", "extract")
	require.NoError(t, err)
	_, err = execute(t, "", "--config", cfgPath, "translate", "files", "--no-progress")
	require.NoError(t, err)
	// A target language whose dictionary is gone falls back to the source content.
	require.NoError(t, os.Remove(filepath.Join(tmpDir, "localization", "language-files", "de", "components", "Hero.json")))

	got, err := execute(t, "fr\n\nde\nja\n", "--config", cfgPath, "preview", "Hero")
	require.NoError(t, err)
	assert.Equal(t, `Hero [en]
  text_1: Welcome home
  text_2: Build faster
Hero [fr]
  text_1: [fr] Welcome home
  text_2: [fr] Build faster
Hero [de]
  text_1: Welcome home
  text_2: Build faster
Hero [ja]
  text_1: Welcome home
  text_2: Build faster
`, got)
}

func TestPreviewCommand_errors(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t, t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing name", args: []string{"preview", "--kind", "components"}},
		{name: "invalid kind", args: []string{"preview", "--kind", "widgets", "Hero"}},
		{name: "missing dictionary", args: []string{"preview", "--kind", "pages", "index"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"--config", cfgPath}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestNewPreviewCommand(t *testing.T) {
	cmd := newPreviewCommand()

	kindFlag := cmd.Flags().Lookup("kind")
	require.NotNil(t, kindFlag)
	assert.Equal(t, "Kind", kindFlag.Value.Type())
	assert.Equal(t, "components", kindFlag.DefValue)

	require.NoError(t, cmd.Flags().Set("kind", "pages"))
	assert.Equal(t, "pages", kindFlag.Value.String())
	assert.Error(t, cmd.Flags().Set("kind", "widgets"))
}
