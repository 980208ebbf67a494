// Package backup keeps a snapshot of every source file before it is
// rewritten, so that the source tree can be restored byte for byte.
package backup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
)

const manifestFileName = "manifest.yml"

var (
	// ErrNoBackups is returned by Restore when nothing was ever snapshotted.
	ErrNoBackups = errors.New("no backups found")
	// ErrSnapshotConflict is returned when another source with the same file
	// name was already snapshotted.
	ErrSnapshotConflict = errors.New("snapshot name is used by another source")
)

// Manifest maps snapshot file names to the path they were taken from.
type Manifest map[string]string

// Store is the flat snapshot directory of one source kind.
type Store struct {
	directory string
}

// NewStore returns the store of kind under rootDir.
func NewStore(rootDir string, kind sourcefile.Kind) *Store {
	return &Store{
		directory: filepath.Join(rootDir, string(kind)),
	}
}

// Directory returns where the snapshots are written.
func (s *Store) Directory() string {
	return s.directory
}

// Snapshot copies origin into the store and records it in the manifest.
// A snapshot of the same origin is overwritten.
func (s *Store) Snapshot(origin string) error {
	manifest, err := s.readManifest()
	if err != nil {
		return fmt.Errorf("s.readManifest > %w", err)
	}

	name := filepath.Base(origin)
	originPath := filepath.ToSlash(filepath.Clean(origin))
	if recorded, ok := manifest[name]; ok && recorded != originPath {
		return fmt.Errorf("%s is a snapshot of %s: %w", name, recorded, ErrSnapshotConflict)
	}

	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", s.directory, err)
	}
	if err := copyFile(origin, filepath.Join(s.directory, name)); err != nil {
		return fmt.Errorf("copyFile(%s) > %w", origin, err)
	}

	manifest[name] = originPath
	if err := s.writeManifest(manifest); err != nil {
		return fmt.Errorf("s.writeManifest > %w", err)
	}
	return nil
}

// RestoreResult counts the snapshots copied back.
type RestoreResult struct {
	Restored int
	Failed   int
}

// Restore copies every snapshot back to its recorded origin. Snapshots
// without a manifest entry are restored into fallbackDir.
func (s *Store) Restore(fallbackDir string) (RestoreResult, error) {
	var result RestoreResult
	entries, err := os.ReadDir(s.directory)
	if errors.Is(err, os.ErrNotExist) {
		return result, ErrNoBackups
	}
	if err != nil {
		return result, fmt.Errorf("os.ReadDir(%s) > %w", s.directory, err)
	}

	manifest, err := s.readManifest()
	if err != nil {
		return result, fmt.Errorf("s.readManifest > %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == manifestFileName {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return result, ErrNoBackups
	}
	sort.Strings(names)

	for _, name := range names {
		destination := filepath.Join(fallbackDir, name)
		if origin, ok := manifest[name]; ok {
			destination = filepath.FromSlash(origin)
		}

		if err := restoreFile(filepath.Join(s.directory, name), destination); err != nil {
			slog.Default().Error("failed to restore a snapshot",
				slog.String("snapshot", name),
				slog.String("destination", destination),
				slog.Any("error", err),
			)
			result.Failed++
			continue
		}
		slog.Default().Debug("restored", slog.String("path", destination))
		result.Restored++
	}
	return result, nil
}

func restoreFile(snapshot, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	return copyFile(snapshot, destination)
}

func (s *Store) manifestPath() string {
	return filepath.Join(s.directory, manifestFileName)
}

func (s *Store) readManifest() (Manifest, error) {
	manifest := make(Manifest)
	data, err := os.ReadFile(s.manifestPath())
	if errors.Is(err, os.ErrNotExist) {
		return manifest, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", s.manifestPath(), err)
	}
	if manifest == nil {
		manifest = make(Manifest)
	}
	return manifest, nil
}

func (s *Store) writeManifest(manifest Manifest) error {
	f, err := os.Create(s.manifestPath())
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(manifest)
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = in.Close()
	}()
	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("in.Stat > %w", err)
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("os.OpenFile > %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("io.Copy > %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("out.Close > %w", err)
	}
	return nil
}
