package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/l10nkit/internal/config"
	"github.com/at-ishikawa/l10nkit/internal/datasync"
	"github.com/at-ishikawa/l10nkit/internal/tracker"
	"github.com/at-ishikawa/l10nkit/internal/translation"
	"github.com/at-ishikawa/l10nkit/internal/translation/google"
	"github.com/at-ishikawa/l10nkit/internal/watch"
)

func newTranslateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "translate",
		Short: "Translate the source-language dictionaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	command.AddCommand(
		newTranslateFilesCommand(),
		newTranslateWatchCommand(),
	)
	return command
}

// newSynchronizer returns the synchronizer and a function releasing the HTTP
// client.
func newSynchronizer(cfg *config.Config) (*datasync.Synchronizer, func(), error) {
	if err := cfg.ValidateTranslation(); err != nil {
		return nil, nil, err
	}
	client, err := google.NewClient(cfg.Google)
	if err != nil {
		return nil, nil, fmt.Errorf("google.NewClient() > %w", err)
	}
	closeClient := func() {
		_ = client.Close()
	}
	var remote translation.Client = client
	if cfg.Translation.CacheDirectory != "" {
		remote = translation.NewCachedClient(client, cfg.Translation.CacheDirectory)
	}

	synchronizer, err := datasync.NewSynchronizer(datasync.Options{
		DictionaryDirectory: cfg.Paths.DictionaryDirectory,
		SourceLanguage:      cfg.SourceLanguage,
		TargetLanguages:     cfg.TargetLanguages,
	},
		translation.NewValueTranslator(remote, cfg.SourceLanguage, cfg.Translation.Concurrency),
		tracker.New(cfg.Paths.TrackerPath()),
	)
	if err != nil {
		closeClient()
		return nil, nil, fmt.Errorf("datasync.NewSynchronizer() > %w", err)
	}
	return synchronizer, closeClient, nil
}

func newTranslateFilesCommand() *cobra.Command {
	var noProgress bool
	command := &cobra.Command{
		Use:   "files",
		Short: "Translate the dictionaries changed since the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			synchronizer, closeClient, err := newSynchronizer(cfg)
			if err != nil {
				return err
			}
			defer closeClient()

			if !noProgress {
				var bar *progressbar.ProgressBar
				synchronizer.OnProgress = func(done, total int) {
					if bar == nil {
						bar = newProgressBar(cmd.ErrOrStderr(), total)
					}
					_ = bar.Set(done)
					if done == total {
						_ = bar.Finish()
					}
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			result, err := synchronizer.Sync(ctx)
			if err != nil {
				return fmt.Errorf("synchronizer.Sync() > %w", err)
			}
			return printSyncResult(cmd.OutOrStdout(), result)
		},
	}
	command.Flags().BoolVar(&noProgress, "no-progress", false, "Do not render the progress bar")
	return command
}

func newTranslateWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Translate the dictionaries whenever they change, until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			synchronizer, closeClient, err := newSynchronizer(cfg)
			if err != nil {
				return err
			}
			defer closeClient()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return watch.Watch(ctx, synchronizer.SourceDirectory(), cfg.Watch.Debounce, synchronizer, func(result datasync.Result, err error) {
				if err != nil || ctx.Err() != nil {
					return
				}
				_ = printSyncResult(out, result)
			})
		},
	}
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]translating[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printSyncResult(w io.Writer, result datasync.Result) error {
	if result.Status == datasync.StatusUpToDate {
		_, err := color.New(color.FgGreen).Fprintln(w, "All translations are up to date")
		return err
	}
	if _, err := color.New(color.FgGreen).Fprintf(w, "Translated %d dictionaries (%d files)\n", result.Translated, result.Files); err != nil {
		return err
	}
	if result.Failed > 0 {
		if _, err := color.New(color.FgRed).Fprintf(w, "Failed to translate %d dictionaries\n", result.Failed); err != nil {
			return err
		}
	}
	return nil
}
