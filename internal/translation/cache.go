package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CachedClient answers requests it has already seen from files under a
// directory, one file per (source, target, text).
type CachedClient struct {
	client  Client
	rootDir string
}

var _ Client = (*CachedClient)(nil)

func NewCachedClient(client Client, cacheDirectory string) *CachedClient {
	return &CachedClient{
		client:  client,
		rootDir: cacheDirectory,
	}
}

type cacheEntry struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

func (cache *CachedClient) filePath(request Request) string {
	sum := sha256.Sum256([]byte(request.Text))
	return filepath.Join(cache.rootDir, request.Source, request.Target, hex.EncodeToString(sum[:])+".json")
}

// Translate implements Client. Only successful translations are cached.
func (cache *CachedClient) Translate(ctx context.Context, request Request) (string, error) {
	localFilePath := cache.filePath(request)
	if entry, err := cache.read(localFilePath); err == nil && entry.Text == request.Text {
		return entry.Translation, nil
	}

	translated, err := cache.client.Translate(ctx, request)
	if err != nil {
		return "", err
	}

	if err := cache.write(localFilePath, cacheEntry{Text: request.Text, Translation: translated}); err != nil {
		slog.Default().Warn("failed to cache a translation", slog.String("path", localFilePath), slog.Any("error", err))
	}
	return translated, nil
}

func (cache *CachedClient) read(path string) (cacheEntry, error) {
	var entry cacheEntry
	contents, err := os.ReadFile(path)
	if err != nil {
		return entry, fmt.Errorf("os.ReadFile > %w", err)
	}
	if err := json.Unmarshal(contents, &entry); err != nil {
		return entry, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return entry, nil
}

func (cache *CachedClient) write(path string, entry cacheEntry) error {
	contents, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}
