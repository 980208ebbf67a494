package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/l10nkit/internal/dictionary"
	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
	"github.com/at-ishikawa/l10nkit/internal/switcher"
)

func newPreviewCommand() *cobra.Command {
	kind := sourcefile.KindComponents
	command := &cobra.Command{
		Use:   "preview <name>...",
		Short: "Switch dictionaries between languages read from stdin, one code per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			signal := switcher.NewSignal()
			for _, stem := range args {
				source, err := dictionary.ReadContent(dictionary.Path(cfg.Paths.DictionaryDirectory, cfg.SourceLanguage, kind, stem))
				if err != nil {
					return fmt.Errorf("dictionary.ReadContent(%s) > %w", stem, err)
				}
				view := switcher.NewView(stem, signal,
					switcher.NewFileLoader(cfg.Paths.DictionaryDirectory, kind, stem),
					source, cfg.TargetLanguages)
				view.OnChange = func(v *switcher.View, language string) {
					_ = printView(out, v.Name(), language, v.Content())
				}
				view.Mount()
				defer view.Unmount()

				if err := printView(out, stem, cfg.SourceLanguage, source); err != nil {
					return err
				}
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				language := strings.TrimSpace(scanner.Text())
				if language == "" {
					continue
				}
				signal.Publish(language)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("scanner.Scan > %w", err)
			}
			return nil
		},
	}
	command.Flags().Var(&kind, "kind", fmt.Sprintf("Kind of the dictionaries. Possible values are %v", sourcefile.AllKinds))
	return command
}

func printView(w io.Writer, name string, language string, content *dictionary.Object) error {
	if _, err := color.New(color.Bold).Fprintf(w, "%s [%s]\n", name, language); err != nil {
		return err
	}
	for pair := content.Oldest(); pair != nil; pair = pair.Next() {
		if _, err := fmt.Fprintf(w, "  %s: %v\n", pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}
