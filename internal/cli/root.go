package cli

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/keenthemes/ktui-picker/internal/config"
	"github.com/keenthemes/ktui-picker/internal/logger"
	"github.com/keenthemes/ktui-picker/internal/storage"
	"github.com/keenthemes/ktui-picker/internal/store"
	"github.com/keenthemes/ktui-picker/internal/sync"
	"github.com/keenthemes/ktui-picker/internal/tui"
)

var opts config.Options

// RootCmd is the root command for the CLI
var RootCmd = &cobra.Command{
	Use:   "ktpick",
	Short: "ktpick - terminal date picker",
	Long:  `A terminal date and time picker with single, range and multi-date selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, so route logs to a file.
		logger.InitializeWithConfig(logger.Config{
			Level:   logger.GetLevel().String(),
			Format:  logger.GetFormat(),
			TUIMode: true,
		})

		st := store.New(storeOptions(opts)...)

		var watcher *sync.Watcher
		if path, err := config.OptionsPath(); err == nil {
			if w, werr := sync.NewWatcher(path); werr == nil {
				watcher = w
			} else {
				logger.Warn("cli: options watcher unavailable", "error", werr)
			}
		}

		var history *storage.HistoryRepository
		if opts.RecordHistory {
			if repo, err := openHistory(); err == nil {
				history = repo
			} else {
				logger.Warn("cli: history unavailable", "error", err)
			}
		}

		model, err := tui.NewModel(st, opts, watcher, history)
		if err != nil {
			return fmt.Errorf("failed to build picker: %w", err)
		}
		p := tea.NewProgram(model, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	cobra.OnInitialize(initOptions)

	RootCmd.AddCommand(setupCmd)
	RootCmd.AddCommand(historyCmd)
}

// initOptions loads the options file, falling back to defaults.
func initOptions() {
	path, err := config.OptionsPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving options path: %v\n", err)
		os.Exit(1)
	}

	opts, err = config.LoadOptions(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading options: %v\n", err)
		os.Exit(1)
	}
}

// storeOptions maps the tunable options onto store construction.
func storeOptions(o config.Options) []store.Option {
	var sopts []store.Option
	if o.BatchDelayMs > 0 {
		sopts = append(sopts, store.WithBatchDelay(time.Duration(o.BatchDelayMs)*time.Millisecond))
	}
	return sopts
}

func openHistory() (*storage.HistoryRepository, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}
	db, err := storage.NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return storage.NewHistoryRepository(db), nil
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
