package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Entry
	}{
		{
			name: "single heading",
			source: `import React from "react";

const Hero: React.FC = () => {
  return <h1>Welcome</h1>;
};
`,
			want: []Entry{
				{Key: "text_1", Text: "Welcome", Sources: []string{"Welcome"}},
			},
		},
		{
			name: "duplicates collapse to one key",
			source: `const Buttons = () => (
  <div>
    <button>OK</button>
    <span>Cancel</span>
    <button>OK</button>
  </div>
);`,
			want: []Entry{
				{Key: "text_1", Text: "OK", Sources: []string{"OK"}},
				{Key: "text_2", Text: "Cancel", Sources: []string{"Cancel"}},
			},
		},
		{
			name: "attribute expressions are normalized",
			source: `<div style={{ padding: '60px 20px', textAlign: 'center' }}>
  <h1 style={{ fontSize: "3rem" }}>Multilingual made simple</h1>
  <img src={logo} alt="logo" />
</div>`,
			want: []Entry{
				{Key: "text_1", Text: "Multilingual made simple", Sources: []string{"Multilingual made simple"}},
			},
		},
		{
			name: "expressions, conditionals and callbacks are skipped",
			source: `<div>
  <p>{content.text_1}</p>
  <span>{isOpen && (</span>
  <span>{items.map((item) => (</span>
  <em>()</em>
  <strong>Plain text</strong>
</div>`,
			want: []Entry{
				{Key: "text_1", Text: "Plain text", Sources: []string{"Plain text"}},
			},
		},
		{
			name:   "elements are visited in start tag order",
			source: `<div>Outer<p>Inner</p>tail</div>`,
			want: []Entry{
				{Key: "text_1", Text: "Outertail", Sources: []string{"Outertail"}},
				{Key: "text_2", Text: "Inner", Sources: []string{"Inner"}},
			},
		},
		{
			name:   "character references are decoded",
			source: `<p>Tom &amp; Jerry</p>`,
			want: []Entry{
				{Key: "text_1", Text: "Tom & Jerry", Sources: []string{"Tom &amp; Jerry"}},
			},
		},
		{
			name:   "spellings of the same text share one entry",
			source: `<h1>Tom &amp; Jerry</h1><p>Tom & Jerry</p><p>Tom &#38; Jerry</p><p>Tom &amp; Jerry</p>`,
			want: []Entry{
				{Key: "text_1", Text: "Tom & Jerry", Sources: []string{"Tom &amp; Jerry", "Tom & Jerry", "Tom &#38; Jerry"}},
			},
		},
		{
			name:   "self-closing components do not swallow siblings",
			source: `<section><Hero />Intro</section><footer>Bye</footer>`,
			want: []Entry{
				{Key: "text_1", Text: "Intro", Sources: []string{"Intro"}},
				{Key: "text_2", Text: "Bye", Sources: []string{"Bye"}},
			},
		},
		{
			name:   "head export title",
			source: `export const Head: HeadFC = () => <title>Home - Multilingual Demo</title>`,
			want: []Entry{
				{Key: "text_1", Text: "Home - Multilingual Demo", Sources: []string{"Home - Multilingual Demo"}},
			},
		},
		{
			name:   "no markup",
			source: `export const add = (a: number, b: number) => a + b;`,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.source))
		})
	}
}

func TestExtract_distinctCount(t *testing.T) {
	source := `<main>
  <h2>Alpha</h2>
  <p> Beta </p>
  <h2>Alpha</h2>
  <p>Gamma</p>
  <p>Beta</p>
</main>`
	got := Extract(source)
	assert.Len(t, got, 3)
	assert.Equal(t, "Beta", got[1].Text)
}

func TestIsTranslatable(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "", want: false},
		{text: "()", want: false},
		{text: "{}", want: false},
		{text: "[]", want: false},
		{text: "{content.title}", want: false},
		{text: "a && b", want: false},
		{text: "x => x", want: false},
		{text: "Hello, world!", want: true},
		{text: "▼", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTranslatable(tt.text))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t,
		`<a href="url" title="'x'">`,
		Normalize(`<a href={url} title={"x"}>`),
	)
}
