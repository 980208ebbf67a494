package translation

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/translation/mock_client.go -package=mock_translation

// Client translates a single text with a remote service.
type Client interface {
	Translate(ctx context.Context, request Request) (string, error)
}

// Request is one plain-text translation.
type Request struct {
	Text   string
	Source string
	Target string
}

const (
	DefaultMaxAttempts = 3
	DefaultConcurrency = 4
)
