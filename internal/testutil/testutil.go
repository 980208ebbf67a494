// Package testutil provides shared test helpers for creating config files and source tree fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// HeroComponent is a component with a react import and an arrow declaration.
const HeroComponent = `import React from 'react';

const Hero = () => {
  return (
    <section>
      <h1>Welcome home</h1>
      <p>Build faster</p>
    </section>
  );
};

export default Hero;
`

// IndexPage is a page with a Head export whose title must stay literal.
const IndexPage = `import * as React from "react"

export default function IndexPage() {
  return (
    <main>
      <h1>Home</h1>
    </main>
  )
}

export const Head = () => <title>Home</title>
`

// PlainModule has markup but no react import.
const PlainModule = `export const Badge = () => <span>New</span>;
`

// ConfigOption configures optional fields of the generated config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	sourceLanguage  string
	targetLanguages []string
	googleBaseURL   string
}

// WithTargetLanguages sets target_languages.
func WithTargetLanguages(languages ...string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.targetLanguages = languages
	}
}

// WithGoogleBaseURL points the translation client at a test server.
func WithGoogleBaseURL(url string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.googleBaseURL = url
	}
}

// SetupTestConfig creates a config file whose trees all live under tmpDir,
// and the components and pages directories.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		sourceLanguage:  "en",
		targetLanguages: []string{"fr"},
		googleBaseURL:   "https://translation.googleapis.com",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, d := range []string{"components", "pages"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src", d), 0755))
	}

	var targets strings.Builder
	for _, language := range cfg.targetLanguages {
		fmt.Fprintf(&targets, "\n  - %s", language)
	}
	configContent := fmt.Sprintf(`source_language: %s
target_languages:%s
google:
  base_url: %s
  backoff: 1ms
paths:
  components_directory: %s
  pages_directory: %s
  backup_directory: %s
  dictionary_directory: %s
`,
		cfg.sourceLanguage,
		targets.String(),
		cfg.googleBaseURL,
		filepath.Join(tmpDir, "src", "components"),
		filepath.Join(tmpDir, "src", "pages"),
		filepath.Join(tmpDir, "localization", "original-files"),
		filepath.Join(tmpDir, "localization", "language-files"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// CreateSourceFile writes content to dir/name, creating the parent directories.
// Returns the path to the file.
func CreateSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
