package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/l10nkit/internal/backup"
	"github.com/at-ishikawa/l10nkit/internal/extraction"
	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
)

func newKindCommand(kind sourcefile.Kind) *cobra.Command {
	command := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Extract or restore the %s source tree", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	command.AddCommand(
		newExtractCommand(kind),
		newRestoreCommand(kind),
	)
	return command
}

func newPipeline(kind sourcefile.Kind) (*extraction.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	tmpl, err := effectTemplate(cfg)
	if err != nil {
		return nil, err
	}
	return extraction.NewPipeline(extraction.Options{
		Kind:            kind,
		SourceDir:       sourceDirectory(cfg, kind),
		DictionaryDir:   cfg.Paths.DictionaryDirectory,
		SourceLanguage:  cfg.SourceLanguage,
		TargetLanguages: cfg.TargetLanguages,
		EffectTemplate:  tmpl,
	}, backup.NewStore(cfg.Paths.BackupDirectory, kind)), nil
}

func newExtractCommand(kind sourcefile.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: fmt.Sprintf("Back up the %s, write their dictionaries and bind them to the dictionaries", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline(kind)
			if err != nil {
				return err
			}
			result, err := pipeline.Extract(cmd.Context())
			if err != nil {
				return fmt.Errorf("pipeline.Extract() > %w", err)
			}
			return printExtractResult(cmd.OutOrStdout(), kind, result)
		},
	}
}

func newRestoreCommand(kind sourcefile.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: fmt.Sprintf("Copy the backed up %s back over the source tree", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline(kind)
			if err != nil {
				return err
			}
			result, err := pipeline.Restore()
			if errors.Is(err, backup.ErrNoBackups) {
				_, err := color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "No %s backups to restore\n", kind.Singular())
				return err
			}
			if err != nil {
				return fmt.Errorf("pipeline.Restore() > %w", err)
			}
			return printRestoreResult(cmd.OutOrStdout(), kind, result)
		},
	}
}

func printExtractResult(w io.Writer, kind sourcefile.Kind, result extraction.Result) error {
	if _, err := fmt.Fprintf(w, "Extracted %d %s\n", result.Extracted, kind); err != nil {
		return err
	}
	lines := []struct {
		c      *color.Color
		format string
		count  int
	}{
		{color.New(color.FgGreen), "  rewritten:     %d\n", result.Rewritten},
		{color.New(color.FgYellow), "  not rewritten: %d (no react import)\n", result.NotRewritten},
		{color.New(color.FgYellow), "  skipped:       %d\n", result.Skipped},
		{color.New(color.FgRed), "  failed:        %d\n", result.Failed},
	}
	for _, line := range lines {
		if line.count == 0 {
			continue
		}
		if _, err := line.c.Fprintf(w, line.format, line.count); err != nil {
			return err
		}
	}
	return nil
}

func printRestoreResult(w io.Writer, kind sourcefile.Kind, result backup.RestoreResult) error {
	if _, err := color.New(color.FgGreen).Fprintf(w, "Restored %d %s\n", result.Restored, kind); err != nil {
		return err
	}
	if result.Failed > 0 {
		if _, err := color.New(color.FgRed).Fprintf(w, "  failed: %d\n", result.Failed); err != nil {
			return err
		}
	}
	return nil
}
