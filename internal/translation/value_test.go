package translation_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/l10nkit/internal/dictionary"
	mock_translation "github.com/at-ishikawa/l10nkit/internal/mocks/translation"
	"github.com/at-ishikawa/l10nkit/internal/translation"
)

func decode(t *testing.T, data string) any {
	t.Helper()
	value, err := dictionary.Decode([]byte(data))
	require.NoError(t, err)
	return value
}

func encode(t *testing.T, value any) string {
	t.Helper()
	data, err := dictionary.Encode(value)
	require.NoError(t, err)
	return string(data)
}

func TestValueTranslator_Translate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		setupMock   func(m *mock_translation.MockClient)
		want        string
		wantLiteral any
	}{
		{
			name:  "nested mapping keeps key order",
			input: `{"title": "Hello", "content": {"text_2": "Goodbye", "text_1": "Welcome"}}`,
			setupMock: func(m *mock_translation.MockClient) {
				gomock.InOrder(
					m.EXPECT().Translate(gomock.Any(), translation.Request{Text: "Hello", Source: "en", Target: "fr"}).Return("Bonjour", nil),
					m.EXPECT().Translate(gomock.Any(), translation.Request{Text: "Goodbye", Source: "en", Target: "fr"}).Return("Au revoir", nil),
					m.EXPECT().Translate(gomock.Any(), translation.Request{Text: "Welcome", Source: "en", Target: "fr"}).Return("Bienvenue", nil),
				)
			},
			want: `{
  "title": "Bonjour",
  "content": {
    "text_2": "Au revoir",
    "text_1": "Bienvenue"
  }
}`,
		},
		{
			name:  "excluded strings are never sent",
			input: `["2024-05-01T10:00:00Z", "507f1f77bcf86cd799439011", "12345", "team@example.com", "https://example.com", "", "   "]`,
			setupMock: func(m *mock_translation.MockClient) {
				m.EXPECT().Translate(gomock.Any(), gomock.Any()).Times(0)
			},
			want: `[
  "2024-05-01T10:00:00Z",
  "507f1f77bcf86cd799439011",
  "12345",
  "team@example.com",
  "https://example.com",
  "",
  "   "
]`,
		},
		{
			name:  "slug field is normalized",
			input: `{"slug": "Hello World!", "name": "Hello World!"}`,
			setupMock: func(m *mock_translation.MockClient) {
				m.EXPECT().Translate(gomock.Any(), gomock.Any()).Return(" Bonjour, le Monde élégant ! ", nil).Times(2)
			},
			want: `{
  "slug": "bonjour-le-monde-elegant",
  "name": " Bonjour, le Monde élégant ! "
}`,
		},
		{
			name:  "failed translation keeps the original",
			input: `{"a": "Save", "b": "Cancel"}`,
			setupMock: func(m *mock_translation.MockClient) {
				m.EXPECT().Translate(gomock.Any(), translation.Request{Text: "Save", Source: "en", Target: "fr"}).Return("", errors.New("quota exceeded"))
				m.EXPECT().Translate(gomock.Any(), translation.Request{Text: "Cancel", Source: "en", Target: "fr"}).Return("Annuler", nil)
			},
			want: `{
  "a": "Save",
  "b": "Annuler"
}`,
		},
		{
			name:  "non-string scalars pass through",
			input: `{"count": 3, "enabled": true, "missing": null}`,
			setupMock: func(m *mock_translation.MockClient) {
				m.EXPECT().Translate(gomock.Any(), gomock.Any()).Times(0)
			},
			want: `{
  "count": 3,
  "enabled": true,
  "missing": null
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_translation.NewMockClient(ctrl)
			tt.setupMock(client)

			vt := translation.NewValueTranslator(client, "en", 1)
			got, err := vt.Translate(context.Background(), decode(t, tt.input), "fr")
			require.NoError(t, err)
			assert.Equal(t, tt.want, encode(t, got))
		})
	}
}

func TestValueTranslator_Translate_absentValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	vt := translation.NewValueTranslator(mock_translation.NewMockClient(ctrl), "en", 2)

	got, err := vt.Translate(context.Background(), nil, "ja")
	require.NoError(t, err)
	assert.Nil(t, got)

	number, err := vt.Translate(context.Background(), json.Number("7"), "ja")
	require.NoError(t, err)
	assert.Equal(t, json.Number("7"), number)
}

func TestValueTranslator_Translate_listOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_translation.NewMockClient(ctrl)
	client.EXPECT().Translate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, request translation.Request) (string, error) {
			return strings.ToUpper(request.Text) + "@" + request.Target, nil
		},
	).Times(20)

	items := make([]any, 20)
	want := make([]any, 20)
	for i := range items {
		text := strings.Repeat("a", i+1)
		items[i] = text
		want[i] = strings.ToUpper(text) + "@de"
	}

	vt := translation.NewValueTranslator(client, "en", 4)
	got, err := vt.Translate(context.Background(), items, "de")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValueTranslator_Translate_canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_translation.NewMockClient(ctrl)
	client.EXPECT().Translate(gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vt := translation.NewValueTranslator(client, "en", 1)
	_, err := vt.Translate(ctx, decode(t, `{"a": ["b"]}`), "fr")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "2024-01-31", want: true},
		{text: "2024-01-31 is the deadline", want: true},
		{text: "507f1f77bcf86cd799439011", want: true},
		{text: "507F1F77BCF86CD799439011", want: false},
		{text: "42", want: true},
		{text: "42 apples", want: false},
		{text: "Contact us@", want: true},
		{text: "http://example.com", want: true},
		{text: "Visit http://example.com", want: false},
		{text: "Hello", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, translation.IsExcluded(tt.text))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "Hello World!", want: "hello-world"},
		{text: "  --Déjà vu--  ", want: "deja-vu"},
		{text: "Über   Größe 2", want: "uber-gro-e-2"},
		{text: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := translation.Slugify(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, `^([a-z0-9]+(-[a-z0-9]+)*)?$`, got)
		})
	}
}
