package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Options is the picker configuration, read from options.yaml.
type Options struct {
	// Mode is the selection shape: single, range or multi.
	Mode string `yaml:"mode"`
	// Format is the token format string, e.g. "yyyy-MM-dd HH:mm".
	Format string `yaml:"format"`
	// Locale is used for weekday-name display only.
	Locale string `yaml:"locale"`
	// WeekStart is the first weekday column: monday or sunday.
	WeekStart string `yaml:"week_start"`
	// Granularity of the editable time-of-day: hour, minute or second.
	Granularity string `yaml:"granularity"`

	CloseOnSelect bool `yaml:"close_on_select"`

	// MinDate/MaxDate bound the selectable window, ISO dates.
	MinDate string `yaml:"min_date,omitempty"`
	MaxDate string `yaml:"max_date,omitempty"`

	// RecordHistory persists committed selections to the local database.
	RecordHistory bool `yaml:"record_history"`

	// BatchDelayMs overrides the store's coalescing window.
	BatchDelayMs int `yaml:"batch_delay_ms,omitempty"`
}

// DefaultOptions returns the options used when no file exists.
func DefaultOptions() Options {
	return Options{
		Mode:          "single",
		Format:        "yyyy-MM-dd",
		Locale:        "en",
		WeekStart:     "monday",
		Granularity:   "minute",
		CloseOnSelect: true,
		RecordHistory: true,
	}
}

// LoadOptions reads the options file, falling back to defaults when it
// does not exist. Unknown fields are rejected so typos surface early.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultOptions(), nil
	}
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options: %w", err)
	}

	opts := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, fmt.Errorf("failed to parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// SaveOptions writes the options file.
func SaveOptions(path string, opts Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}

// Validate checks the enumerated fields and date bounds.
func (o Options) Validate() error {
	switch o.Mode {
	case "", "single", "range", "multi", "multiple":
	default:
		return fmt.Errorf("invalid mode %q", o.Mode)
	}
	switch o.WeekStart {
	case "", "monday", "sunday":
	default:
		return fmt.Errorf("invalid week_start %q", o.WeekStart)
	}
	switch o.Granularity {
	case "", "hour", "minute", "second":
	default:
		return fmt.Errorf("invalid granularity %q", o.Granularity)
	}
	for name, v := range map[string]string{"min_date": o.MinDate, "max_date": o.MaxDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	return nil
}

// WeekStartDay maps the option onto a time.Weekday.
func (o Options) WeekStartDay() time.Weekday {
	if o.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// MinDateTime parses the min_date bound, nil when unset.
func (o Options) MinDateTime() *time.Time {
	return parseBound(o.MinDate)
}

// MaxDateTime parses the max_date bound, nil when unset.
func (o Options) MaxDateTime() *time.Time {
	return parseBound(o.MaxDate)
}

func parseBound(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
