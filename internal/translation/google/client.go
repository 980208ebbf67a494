// Package google implements translation.Client with the Google Cloud
// Translation v2 REST API.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/buger/jsonparser"
	"resty.dev/v3"

	"github.com/at-ishikawa/l10nkit/internal/config"
	"github.com/at-ishikawa/l10nkit/internal/translation"
)

const (
	DefaultBaseURL = "https://translation.googleapis.com"
	translatePath  = "/language/translate/v2"
)

var _ translation.Client = (*Client)(nil)

type Client struct {
	httpClient  *resty.Client
	apiKey      string
	maxAttempts uint
	backoff     time.Duration
}

// NewClient returns a client for cfg. The API key is required.
func NewClient(cfg config.GoogleConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, config.ErrMissingCredential
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = translation.DefaultMaxAttempts
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient:  client,
		apiKey:      cfg.APIKey,
		maxAttempts: maxAttempts,
		backoff:     cfg.Backoff,
	}, nil
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type TranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type TranslateResponse struct {
	Data  TranslateData `json:"data"`
	Error *ErrorPayload `json:"error,omitempty"`
}

type TranslateData struct {
	Translations []Translation `json:"translations"`
}

type Translation struct {
	TranslatedText string `json:"translatedText"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Translate implements the translation.Client interface. Every failure,
// including an error payload, is retried with a linearly growing delay.
func (client *Client) Translate(ctx context.Context, request translation.Request) (string, error) {
	var translated string
	if err := retry.Do(
		func() error {
			text, err := client.translate(ctx, request)
			if err != nil {
				return err
			}
			translated = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n+1) * client.backoff
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Warn("translation attempt failed",
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("target", request.Target),
				slog.Any("error", err),
			)
		}),
	); err != nil {
		return "", fmt.Errorf("failed after %d attempts: %w", client.maxAttempts, err)
	}
	return translated, nil
}

func (client *Client) translate(ctx context.Context, request translation.Request) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", client.apiKey).
		SetBody(TranslateRequest{
			Q:      request.Text,
			Source: request.Source,
			Target: request.Target,
			Format: "text",
		}).
		SetResult(&TranslateResponse{}).
		Post(translatePath)
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		message, _ := jsonparser.GetString([]byte(response.String()), "error", "message")
		if message == "" {
			message = response.String()
		}
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), message)
	}

	responseBody, ok := response.Result().(*TranslateResponse)
	if !ok || responseBody == nil {
		return "", fmt.Errorf("empty response body: %s", response.String())
	}
	if responseBody.Error != nil {
		return "", errors.New(responseBody.Error.Message)
	}
	if len(responseBody.Data.Translations) == 0 {
		return "", fmt.Errorf("no translations in the response: %s", response.String())
	}
	return responseBody.Data.Translations[0].TranslatedText, nil
}
