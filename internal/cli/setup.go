package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/keenthemes/ktui-picker/internal/config"
	"github.com/keenthemes/ktui-picker/internal/datetime"
)

// setupCmd walks through the picker options and writes options.yaml.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the picker interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		next := opts

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Selection mode").
					Options(
						huh.NewOption("Single date", "single"),
						huh.NewOption("Date range", "range"),
						huh.NewOption("Multiple dates", "multi"),
					).
					Value(&next.Mode),
				huh.NewInput().
					Title("Display format").
					Description("Tokens: yyyy MM dd HH hh mm ss a").
					Value(&next.Format).
					Validate(func(s string) error {
						_, err := datetime.CompileLayout(s)
						return err
					}),
				huh.NewSelect[string]().
					Title("Week starts on").
					Options(
						huh.NewOption("Monday", "monday"),
						huh.NewOption("Sunday", "sunday"),
					).
					Value(&next.WeekStart),
				huh.NewSelect[string]().
					Title("Time granularity").
					Options(
						huh.NewOption("Hour", "hour"),
						huh.NewOption("Minute", "minute"),
						huh.NewOption("Second", "second"),
					).
					Value(&next.Granularity),
				huh.NewConfirm().
					Title("Close after selecting?").
					Value(&next.CloseOnSelect),
				huh.NewConfirm().
					Title("Record picks to history?").
					Value(&next.RecordHistory),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Earliest selectable date (optional)").
					Description("YYYY-MM-DD, empty for no bound").
					Value(&next.MinDate).
					Validate(validateBound),
				huh.NewInput().
					Title("Latest selectable date (optional)").
					Description("YYYY-MM-DD, empty for no bound").
					Value(&next.MaxDate).
					Validate(validateBound),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}

		if err := next.Validate(); err != nil {
			return err
		}

		path, err := config.OptionsPath()
		if err != nil {
			return err
		}
		if err := config.SaveOptions(path, next); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func validateBound(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD")
	}
	return nil
}
