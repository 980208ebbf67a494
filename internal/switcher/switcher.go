// Package switcher models the language switching that rewritten components
// perform at runtime: a language-change signal with subscribers, and views
// that reload their content on every change.
package switcher

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/l10nkit/internal/dictionary"
	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
)

// EventName is the name of the language-change event components listen to.
const EventName = "languageChange"

type Listener func(language string)

// Signal broadcasts language changes to its subscribers in subscription
// order.
type Signal struct {
	mu        sync.Mutex
	nextID    int
	order     []int
	listeners map[int]Listener
}

func NewSignal() *Signal {
	return &Signal{listeners: map[int]Listener{}}
}

// Subscribe registers l and returns the function removing it.
func (s *Signal) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish calls every current listener with language. Listeners may
// subscribe or unsubscribe while being called.
func (s *Signal) Publish(language string) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(language)
	}
}

func (s *Signal) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Loader loads the content of one dictionary in a language.
type Loader interface {
	Load(language string) (*dictionary.Object, error)
}

type FileLoader struct {
	baseDir string
	kind    sourcefile.Kind
	stem    string
}

func NewFileLoader(baseDir string, kind sourcefile.Kind, stem string) *FileLoader {
	return &FileLoader{baseDir: baseDir, kind: kind, stem: stem}
}

func (l *FileLoader) Load(language string) (*dictionary.Object, error) {
	path := dictionary.Path(l.baseDir, language, l.kind, l.stem)
	content, err := dictionary.ReadContent(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary.ReadContent > %w", err)
	}
	return content, nil
}

// View holds the content one component renders. It starts with the
// source-language content and falls back to it whenever a language cannot
// be loaded.
type View struct {
	name      string
	signal    *Signal
	loader    Loader
	languages map[string]bool

	mu          sync.Mutex
	source      *dictionary.Object
	content     *dictionary.Object
	language    string
	unsubscribe func()

	// OnChange is called after the content changed.
	OnChange func(view *View, language string)
}

// NewView returns a view of the dictionary named name. Only languages are
// loaded; any other language shows the source content.
func NewView(name string, signal *Signal, loader Loader, source *dictionary.Object, languages []string) *View {
	set := make(map[string]bool, len(languages))
	for _, language := range languages {
		set[language] = true
	}
	return &View{
		name:      name,
		signal:    signal,
		loader:    loader,
		languages: set,
		source:    source,
		content:   source,
	}
}

func (v *View) Name() string {
	return v.name
}

// Mount subscribes the view to the signal. Mounting twice is a no-op.
func (v *View) Mount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unsubscribe != nil {
		return
	}
	v.unsubscribe = v.signal.Subscribe(v.handleLanguageChange)
}

func (v *View) Unmount() {
	v.mu.Lock()
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (v *View) Content() *dictionary.Object {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content
}

// Language returns the last language the view was switched to.
func (v *View) Language() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.language
}

func (v *View) handleLanguageChange(language string) {
	content := v.source
	if v.languages[language] {
		loaded, err := v.loader.Load(language)
		if err != nil {
			slog.Default().Warn("failed to load a language, showing the source content",
				slog.String("view", v.name),
				slog.String("language", language),
				slog.Any("error", err),
			)
		} else {
			content = loaded
		}
	}

	v.mu.Lock()
	v.content = content
	v.language = language
	v.mu.Unlock()

	if v.OnChange != nil {
		v.OnChange(v, language)
	}
}
